package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
	"github.com/BerylCAtieno/persona-studio/internal/models"
)

func TestAgeGroup(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{0, "0대"},
		{9, "0대"},
		{20, "20대"},
		{29, "20대"},
		{104, "100대"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeGroup(tt.age), "age %d", tt.age)
	}
}

func TestDistribute(t *testing.T) {
	got := Distribute(workingSet())
	want := Distributions{
		AgeGroups:   []Count{{"20대", 2}, {"30대", 1}, {"40대", 1}},
		Genders:     []Count{{"남성", 2}, {"여성", 2}},
		Locations:   []Count{{"서울", 2}, {"부산", 1}, {"경기", 1}},
		Occupations: []Count{{"Software Engineer", 1}, {"교사", 1}, {"영업/마케팅", 1}, {"디자이너", 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Distribute (-want +got):\n%s", diff)
	}
}

func TestDistributeSortsAgeGroupsByDecade(t *testing.T) {
	got := Distribute([]models.PersonaRecord{{Age: 104}, {Age: 35}, {Age: 8}, {Age: 36}})
	assert.Equal(t, []Count{{"0대", 1}, {"30대", 2}, {"100대", 1}}, got.AgeGroups)
}

func TestDistributeEmpty(t *testing.T) {
	got := Distribute(nil)
	assert.NotNil(t, got.AgeGroups)
	assert.Empty(t, got.AgeGroups)
	assert.Empty(t, got.Locations)
}

func TestTopTokens(t *testing.T) {
	records := []models.PersonaRecord{
		{Interests: []string{"여행", "music"}, Values: []string{"가족"}, Lifestyle: []string{""}},
		{Interests: []string{"music", "요리"}, Values: []string{"가족", "안정"}},
		{Interests: []string{"요리", "music", "독서"}, Values: []string{"자유"}},
	}

	tests := []struct {
		name string
		n    int
		want TokenFrequencies
	}{
		{
			name: "top two",
			n:    2,
			want: TokenFrequencies{
				Interests: []Count{{"music", 3}, {"요리", 2}},
				Values:    []Count{{"가족", 2}, {"안정", 1}},
				Lifestyle: []Count{},
			},
		},
		{
			name: "all tokens",
			n:    0,
			want: TokenFrequencies{
				Interests: []Count{{"music", 3}, {"요리", 2}, {"여행", 1}, {"독서", 1}},
				Values:    []Count{{"가족", 2}, {"안정", 1}, {"자유", 1}},
				Lifestyle: []Count{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, TopTokens(records, tt.n)); diff != "" {
				t.Fatalf("TopTokens(%d) (-want +got):\n%s", tt.n, diff)
			}
		})
	}
}

func TestPivot(t *testing.T) {
	tests := []struct {
		name     string
		row, col Field
		want     PivotTable
	}{
		{
			name: "gender by age group",
			row:  FieldGender,
			col:  FieldAgeGroup,
			want: PivotTable{
				RowField: FieldGender,
				ColField: FieldAgeGroup,
				Rows:     []string{"남성", "여성"},
				Cols:     []string{"20대", "30대", "40대"},
				Counts:   [][]int{{1, 0, 1}, {1, 1, 0}},
			},
		},
		{
			name: "marital status by location",
			row:  FieldMaritalStatus,
			col:  FieldLocation,
			want: PivotTable{
				RowField: FieldMaritalStatus,
				ColField: FieldLocation,
				Rows:     []string{"기혼", "미혼"},
				Cols:     []string{"경기", "부산", "서울"},
				Counts:   [][]int{{1, 1, 0}, {0, 0, 2}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pivot(workingSet(), tt.row, tt.col)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Pivot (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPivotEmpty(t *testing.T) {
	got, err := Pivot(nil, FieldGender, FieldEducation)
	require.NoError(t, err)
	assert.Empty(t, got.Rows)
	assert.Empty(t, got.Cols)
	assert.Empty(t, got.Counts)
}

func TestPivotRejectsUnknownField(t *testing.T) {
	_, err := Pivot(workingSet(), FieldGender, Field("interests"))
	assert.True(t, apperr.Is(err, apperr.InvalidFilter), "got %v", err)
}

func TestParseField(t *testing.T) {
	f, err := ParseField(" Income_Bracket ")
	require.NoError(t, err)
	assert.Equal(t, FieldIncomeBracket, f)

	_, err = ParseField("name")
	assert.True(t, apperr.Is(err, apperr.InvalidFilter))
}
