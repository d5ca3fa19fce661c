package filter

import (
	"slices"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
	"github.com/BerylCAtieno/persona-studio/internal/models"
)

// Count is one bucket of a frequency table.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Field names a single-valued persona attribute that can be grouped on.
type Field string

const (
	FieldAgeGroup      Field = "age_group"
	FieldGender        Field = "gender"
	FieldLocation      Field = "location"
	FieldEducation     Field = "education"
	FieldOccupation    Field = "occupation"
	FieldIncomeBracket Field = "income_bracket"
	FieldMaritalStatus Field = "marital_status"
)

var fieldValues = map[Field]func(models.PersonaRecord) string{
	FieldAgeGroup:      func(r models.PersonaRecord) string { return AgeGroup(r.Age) },
	FieldGender:        func(r models.PersonaRecord) string { return r.Gender },
	FieldLocation:      func(r models.PersonaRecord) string { return r.Location },
	FieldEducation:     func(r models.PersonaRecord) string { return r.Education },
	FieldOccupation:    func(r models.PersonaRecord) string { return r.Occupation },
	FieldIncomeBracket: func(r models.PersonaRecord) string { return r.IncomeBracket },
	FieldMaritalStatus: func(r models.PersonaRecord) string { return r.MaritalStatus },
}

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fieldValues[f]; !ok {
		return "", apperr.Newf(apperr.InvalidFilter, "cannot group by %q", s)
	}
	return f, nil
}

// AgeGroup labels the decade an age falls in: 24 -> "20대".
func AgeGroup(age int) string {
	return strconv.Itoa(decade(age)) + "대"
}

func decade(age int) int {
	d := age / 10
	if age < 0 && age%10 != 0 {
		d--
	}
	return d * 10
}

// ageGroupOrder recovers the decade from an AgeGroup label.
func ageGroupOrder(label string) int {
	n, _ := strconv.Atoi(strings.TrimSuffix(label, "대"))
	return n
}

// Distributions are the chart series of the analytics dashboard.
// AgeGroups run from youngest to oldest; the other series are ordered by
// count, highest first, with ties in order of first occurrence.
type Distributions struct {
	AgeGroups   []Count `json:"age_groups"`
	Genders     []Count `json:"genders"`
	Locations   []Count `json:"locations"`
	Occupations []Count `json:"occupations"`
}

func Distribute(records []models.PersonaRecord) Distributions {
	ages := tally(records, fieldValues[FieldAgeGroup])
	slices.SortStableFunc(ages, func(a, b Count) int {
		return ageGroupOrder(a.Key) - ageGroupOrder(b.Key)
	})
	return Distributions{
		AgeGroups:   ages,
		Genders:     countBy(records, fieldValues[FieldGender]),
		Locations:   countBy(records, fieldValues[FieldLocation]),
		Occupations: countBy(records, fieldValues[FieldOccupation]),
	}
}

// TokenFrequencies are the most frequent tokens of each multi-valued field.
type TokenFrequencies struct {
	Interests []Count `json:"interests"`
	Values    []Count `json:"values"`
	Lifestyle []Count `json:"lifestyle"`
}

// TopTokens returns at most n tokens per multi-valued field, most frequent
// first, ties in order of first occurrence. Empty tokens are not counted.
// n <= 0 returns every token.
func TopTokens(records []models.PersonaRecord, n int) TokenFrequencies {
	return TokenFrequencies{
		Interests: topTokens(records, n, func(r models.PersonaRecord) []string { return r.Interests }),
		Values:    topTokens(records, n, func(r models.PersonaRecord) []string { return r.Values }),
		Lifestyle: topTokens(records, n, func(r models.PersonaRecord) []string { return r.Lifestyle }),
	}
}

func topTokens(records []models.PersonaRecord, n int, tokens func(models.PersonaRecord) []string) []Count {
	counts := []Count{}
	index := map[string]int{}
	for _, r := range records {
		for _, tok := range tokens(r) {
			if tok == "" {
				continue
			}
			counts = bump(counts, index, tok)
		}
	}
	sortByCount(counts)
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// PivotTable is a crosstab of two fields. Counts[i][j] is the number of
// records with Rows[i] and Cols[j]; absent combinations are zero.
type PivotTable struct {
	RowField Field    `json:"row_field"`
	ColField Field    `json:"col_field"`
	Rows     []string `json:"rows"`
	Cols     []string `json:"cols"`
	Counts   [][]int  `json:"counts"`
}

// Pivot crosstabs records by two fields. Row and column labels are sorted;
// age groups sort by decade.
func Pivot(records []models.PersonaRecord, rowField, colField Field) (PivotTable, error) {
	rowValue, ok := fieldValues[rowField]
	if !ok {
		return PivotTable{}, apperr.Newf(apperr.InvalidFilter, "cannot group by %q", rowField)
	}
	colValue, ok := fieldValues[colField]
	if !ok {
		return PivotTable{}, apperr.Newf(apperr.InvalidFilter, "cannot group by %q", colField)
	}

	type cell struct{ row, col string }
	cells := map[cell]int{}
	rowSet := map[string]struct{}{}
	colSet := map[string]struct{}{}
	for _, r := range records {
		rv, cv := rowValue(r), colValue(r)
		rowSet[rv] = struct{}{}
		colSet[cv] = struct{}{}
		cells[cell{rv, cv}]++
	}

	t := PivotTable{
		RowField: rowField,
		ColField: colField,
		Rows:     sortedLabels(rowSet, rowField),
		Cols:     sortedLabels(colSet, colField),
	}
	t.Counts = make([][]int, len(t.Rows))
	for i, rv := range t.Rows {
		t.Counts[i] = make([]int, len(t.Cols))
		for j, cv := range t.Cols {
			t.Counts[i][j] = cells[cell{rv, cv}]
		}
	}
	return t, nil
}

func sortedLabels(set map[string]struct{}, f Field) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	if f == FieldAgeGroup {
		slices.SortFunc(out, func(a, b string) int { return ageGroupOrder(a) - ageGroupOrder(b) })
	} else {
		slices.Sort(out)
	}
	return out
}

// countBy counts records per key, most frequent first, ties in order of
// first occurrence.
func countBy(records []models.PersonaRecord, key func(models.PersonaRecord) string) []Count {
	counts := tally(records, key)
	sortByCount(counts)
	return counts
}

// tally counts records per key in order of first occurrence.
func tally(records []models.PersonaRecord, key func(models.PersonaRecord) string) []Count {
	counts := []Count{}
	index := map[string]int{}
	for _, r := range records {
		counts = bump(counts, index, key(r))
	}
	return counts
}

func bump(counts []Count, index map[string]int, key string) []Count {
	if i, ok := index[key]; ok {
		counts[i].Count++
		return counts
	}
	index[key] = len(counts)
	return append(counts, Count{Key: key, Count: 1})
}

func sortByCount(counts []Count) {
	slices.SortStableFunc(counts, func(a, b Count) int { return b.Count - a.Count })
}
