package filter

import (
	"slices"
	"strings"

	"github.com/BerylCAtieno/persona-studio/internal/models"
)

// Criteria is a conjunction of optional predicates. Zero-valued fields
// impose no constraint.
type Criteria struct {
	// Text is matched case-insensitively against name, occupation and location.
	Text string `json:"text,omitempty"`

	Genders         []string `json:"genders,omitempty"`
	Locations       []string `json:"locations,omitempty"`
	MaritalStatuses []string `json:"marital_statuses,omitempty"`
	Educations      []string `json:"educations,omitempty"`
	IncomeBrackets  []string `json:"income_brackets,omitempty"`

	AgeMin *int `json:"age_min,omitempty"`
	AgeMax *int `json:"age_max,omitempty"`

	Occupation string `json:"occupation,omitempty"`
	Interest   string `json:"interest,omitempty"`
	Value      string `json:"value,omitempty"`
	Lifestyle  string `json:"lifestyle,omitempty"`
}

// IsZero reports whether c has no predicate.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Text) == "" &&
		len(c.Genders) == 0 && len(c.Locations) == 0 && len(c.MaritalStatuses) == 0 &&
		len(c.Educations) == 0 && len(c.IncomeBrackets) == 0 &&
		c.AgeMin == nil && c.AgeMax == nil &&
		strings.TrimSpace(c.Occupation) == "" &&
		strings.TrimSpace(c.Interest) == "" &&
		strings.TrimSpace(c.Value) == "" &&
		strings.TrimSpace(c.Lifestyle) == ""
}

// Clone returns a copy of c that shares no slices or pointers with it.
func (c Criteria) Clone() Criteria {
	c.Genders = slices.Clone(c.Genders)
	c.Locations = slices.Clone(c.Locations)
	c.MaritalStatuses = slices.Clone(c.MaritalStatuses)
	c.Educations = slices.Clone(c.Educations)
	c.IncomeBrackets = slices.Clone(c.IncomeBrackets)
	c.AgeMin = cloneInt(c.AgeMin)
	c.AgeMax = cloneInt(c.AgeMax)
	return c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Apply returns the records matching every predicate in c, in their
// original order. records is not modified.
func Apply(records []models.PersonaRecord, c Criteria) []models.PersonaRecord {
	m := compile(c)
	out := make([]models.PersonaRecord, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether a single record satisfies c.
func Match(r models.PersonaRecord, c Criteria) bool {
	return compile(c).match(r)
}

type matcher struct {
	text       string
	genders    []string
	locations  []string
	marital    []string
	educations []string
	incomes    []string
	ageMin     *int
	ageMax     *int
	occupation string
	interest   string
	value      string
	lifestyle  string
}

func compile(c Criteria) matcher {
	return matcher{
		text:       lowerTrim(c.Text),
		genders:    cleanSet(c.Genders),
		locations:  cleanSet(c.Locations),
		marital:    cleanSet(c.MaritalStatuses),
		educations: cleanSet(c.Educations),
		incomes:    cleanSet(c.IncomeBrackets),
		ageMin:     c.AgeMin,
		ageMax:     c.AgeMax,
		occupation: lowerTrim(c.Occupation),
		interest:   lowerTrim(c.Interest),
		value:      lowerTrim(c.Value),
		lifestyle:  lowerTrim(c.Lifestyle),
	}
}

func (m matcher) match(r models.PersonaRecord) bool {
	if m.ageMin != nil && r.Age < *m.ageMin {
		return false
	}
	if m.ageMax != nil && r.Age > *m.ageMax {
		return false
	}
	if !inSet(m.genders, r.Gender) ||
		!inSet(m.locations, r.Location) ||
		!inSet(m.marital, r.MaritalStatus) ||
		!inSet(m.educations, r.Education) ||
		!inSet(m.incomes, r.IncomeBracket) {
		return false
	}
	if m.text != "" {
		// Newlines keep a query from matching across field boundaries.
		haystack := strings.ToLower(r.Name + "\n" + r.Occupation + "\n" + r.Location)
		if !strings.Contains(haystack, m.text) {
			return false
		}
	}
	if m.occupation != "" && !strings.Contains(strings.ToLower(r.Occupation), m.occupation) {
		return false
	}
	return anyToken(r.Interests, m.interest) &&
		anyToken(r.Values, m.value) &&
		anyToken(r.Lifestyle, m.lifestyle)
}

func inSet(set []string, v string) bool {
	return len(set) == 0 || slices.Contains(set, v)
}

func anyToken(tokens []string, needle string) bool {
	if needle == "" {
		return true
	}
	for _, t := range tokens {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cleanSet(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
