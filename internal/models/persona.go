package models

import "slices"

// PersonaRecord is one synthesized individual.
type PersonaRecord struct {
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
	Location      string   `json:"location"`
	Occupation    string   `json:"occupation"`
	Education     string   `json:"education"`
	IncomeBracket string   `json:"income_bracket"`
	MaritalStatus string   `json:"marital_status"`
	Interests     []string `json:"interests"`
	Values        []string `json:"values"`
	Lifestyle     []string `json:"lifestyle"`
}

// Clone returns a copy that shares no slices with p.
func (p PersonaRecord) Clone() PersonaRecord {
	p.Interests = slices.Clone(p.Interests)
	p.Values = slices.Clone(p.Values)
	p.Lifestyle = slices.Clone(p.Lifestyle)
	return p
}

// CloneAll deep-copies a record sequence. A nil input yields an empty slice.
func CloneAll(records []PersonaRecord) []PersonaRecord {
	out := make([]PersonaRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// AgeRange is an inclusive [min, max] pair. It encodes as a two element array.
type AgeRange [2]int

func (r AgeRange) Min() int { return r[0] }
func (r AgeRange) Max() int { return r[1] }

// Contains reports whether age lies within the range, bounds included.
func (r AgeRange) Contains(age int) bool {
	return age >= r[0] && age <= r[1]
}

// Demographics holds the optional constraints of a generation request.
// A nil field means unconstrained.
type Demographics struct {
	AgeRange *AgeRange `json:"age_range,omitempty"`
	Gender   *string   `json:"gender,omitempty"`
	Location *string   `json:"location,omitempty"`
}

// IsZero reports whether no constraint is set.
func (d Demographics) IsZero() bool {
	return d.AgeRange == nil && d.Gender == nil && d.Location == nil
}

// Admits reports whether p satisfies every constraint present in d.
func (d Demographics) Admits(p PersonaRecord) bool {
	if d.AgeRange != nil && !d.AgeRange.Contains(p.Age) {
		return false
	}
	if d.Gender != nil && p.Gender != *d.Gender {
		return false
	}
	if d.Location != nil && p.Location != *d.Location {
		return false
	}
	return true
}

// GenerationRequest is the payload sent to the persona service.
type GenerationRequest struct {
	Count        int          `json:"count"`
	Demographics Demographics `json:"demographics"`
}

// GenerationResponse is the success payload of POST /generate.
type GenerationResponse struct {
	Message  string          `json:"message"`
	Personas []PersonaRecord `json:"personas"`
}
