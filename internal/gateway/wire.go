package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/persona-studio/internal/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

type generateResponse struct {
	Message  string         `json:"message"`
	Personas *[]wirePersona `json:"personas"`
}

// wirePersona accepts both the flat record shape and the nested shape the
// generator emits (demographics / psychological_attributes /
// behavioral_patterns). Flat fields win when both are present.
type wirePersona struct {
	Name          string       `json:"name"`
	Age           *json.Number `json:"age"`
	Gender        string       `json:"gender"`
	Location      string       `json:"location"`
	Occupation    string       `json:"occupation"`
	Education     string       `json:"education"`
	IncomeBracket string       `json:"income_bracket"`
	MaritalStatus string       `json:"marital_status"`
	Interests     []string     `json:"interests"`
	Values        []string     `json:"values"`
	Lifestyle     []string     `json:"lifestyle"`
	LifestyleAttr []string     `json:"lifestyle_attributes"`

	Demographics *struct {
		Age           *json.Number `json:"age"`
		Gender        string       `json:"gender"`
		Location      string       `json:"location"`
		Occupation    string       `json:"occupation"`
		Education     string       `json:"education"`
		IncomeBracket string       `json:"income_bracket"`
		MaritalStatus string       `json:"marital_status"`
	} `json:"demographics"`
	Psychological *struct {
		Values              []string `json:"values"`
		LifestyleAttributes []string `json:"lifestyle_attributes"`
	} `json:"psychological_attributes"`
	Behavioral *struct {
		Interests []string `json:"interests"`
	} `json:"behavioral_patterns"`
}

func (w wirePersona) toRecord() (models.PersonaRecord, error) {
	rec := models.PersonaRecord{
		Name:          strings.TrimSpace(w.Name),
		Gender:        w.Gender,
		Location:      w.Location,
		Occupation:    w.Occupation,
		Education:     w.Education,
		IncomeBracket: w.IncomeBracket,
		MaritalStatus: w.MaritalStatus,
		Interests:     w.Interests,
		Values:        w.Values,
		Lifestyle:     firstNonNil(w.Lifestyle, w.LifestyleAttr),
	}
	age := w.Age

	if d := w.Demographics; d != nil {
		if age == nil {
			age = d.Age
		}
		rec.Gender = firstNonEmpty(rec.Gender, d.Gender)
		rec.Location = firstNonEmpty(rec.Location, d.Location)
		rec.Occupation = firstNonEmpty(rec.Occupation, d.Occupation)
		rec.Education = firstNonEmpty(rec.Education, d.Education)
		rec.IncomeBracket = firstNonEmpty(rec.IncomeBracket, d.IncomeBracket)
		rec.MaritalStatus = firstNonEmpty(rec.MaritalStatus, d.MaritalStatus)
	}
	if p := w.Psychological; p != nil {
		rec.Values = firstNonNil(rec.Values, p.Values)
		rec.Lifestyle = firstNonNil(rec.Lifestyle, p.LifestyleAttributes)
	}
	if b := w.Behavioral; b != nil {
		rec.Interests = firstNonNil(rec.Interests, b.Interests)
	}

	if rec.Name == "" {
		return models.PersonaRecord{}, errors.New("missing name")
	}
	if age == nil {
		return models.PersonaRecord{}, errors.New("missing age")
	}
	n, err := age.Int64()
	if err != nil {
		return models.PersonaRecord{}, fmt.Errorf("age %q is not an integer", age.String())
	}
	rec.Age = int(n)
	return rec, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstNonNil(a, b []string) []string {
	if a != nil {
		return a
	}
	return b
}
