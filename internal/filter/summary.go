package filter

import (
	"math"

	"github.com/BerylCAtieno/persona-studio/internal/models"
)

// Summary is the KPI digest shown above the result grid.
type Summary struct {
	Total       int            `json:"total"`
	AverageAge  int            `json:"average_age"`
	TopLocation string         `json:"top_location"`
	Genders     map[string]int `json:"genders"`
}

// Summarize computes a Summary. On a tie, TopLocation is the tied location
// that occurs first in records.
func Summarize(records []models.PersonaRecord) Summary {
	s := Summary{Total: len(records), Genders: map[string]int{}}
	if len(records) == 0 {
		return s
	}

	ageSum := 0
	for _, r := range records {
		ageSum += r.Age
		s.Genders[r.Gender]++
	}
	if locations := countBy(records, fieldValues[FieldLocation]); len(locations) > 0 {
		s.TopLocation = locations[0].Key
	}
	s.AverageAge = int(math.Round(float64(ageSum) / float64(len(records))))
	return s
}
