package filter

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
	"github.com/BerylCAtieno/persona-studio/internal/models"
)

func workingSet() []models.PersonaRecord {
	return []models.PersonaRecord{
		{
			Name: "김민준", Age: 24, Gender: "남성", Location: "서울", Occupation: "Software Engineer",
			Education: "대졸", IncomeBracket: "40-60%", MaritalStatus: "미혼",
			Interests: []string{"coding", "music"}, Values: []string{"성공"}, Lifestyle: []string{"워라밸 중시"},
		},
		{
			Name: "이서연", Age: 31, Gender: "여성", Location: "부산", Occupation: "교사",
			Education: "대학원졸", IncomeBracket: "60-80%", MaritalStatus: "기혼",
			Interests: []string{"여행", "요리"}, Values: []string{"가족", "안정"}, Lifestyle: []string{"미니멀리스트"},
		},
		{
			Name: "Park Jiho", Age: 45, Gender: "남성", Location: "경기", Occupation: "영업/마케팅",
			Education: "고졸", IncomeBracket: "상위 20%", MaritalStatus: "기혼",
			Interests: []string{"Music Festivals"}, Values: []string{"재물"}, Lifestyle: []string{"가성비 추구"},
		},
		{
			Name: "최지우", Age: 29, Gender: "여성", Location: "서울", Occupation: "디자이너",
			Education: "대졸", IncomeBracket: "20-40%", MaritalStatus: "미혼",
			Interests: []string{"패션/뷰티"}, Values: []string{"자유"}, Lifestyle: []string{"욜로족"},
		},
	}
}

func intPtr(n int) *int { return &n }

func names(records []models.PersonaRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestApplyNoCriteriaReturnsWorkingSet(t *testing.T) {
	w := workingSet()
	got := Apply(w, Criteria{})
	if diff := cmp.Diff(w, got); diff != "" {
		t.Fatalf("Apply with empty criteria changed the set (-want +got):\n%s", diff)
	}
	assert.True(t, Criteria{}.IsZero())
}

func TestApplyPredicates(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"free text is case-insensitive", Criteria{Text: "ENGINEER"}, []string{"김민준"}},
		{"free text matches location", Criteria{Text: "서울"}, []string{"김민준", "최지우"}},
		{"free text does not span fields", Criteria{Text: "engineer서울"}, nil},
		{"gender exact", Criteria{Genders: []string{"여성"}}, []string{"이서연", "최지우"}},
		{"gender any-of", Criteria{Genders: []string{"여성", "남성"}}, []string{"김민준", "이서연", "Park Jiho", "최지우"}},
		{"location exact", Criteria{Locations: []string{"부산"}}, []string{"이서연"}},
		{"marital exact", Criteria{MaritalStatuses: []string{"기혼"}}, []string{"이서연", "Park Jiho"}},
		{"education exact", Criteria{Educations: []string{"대졸"}}, []string{"김민준", "최지우"}},
		{"income exact", Criteria{IncomeBrackets: []string{"상위 20%"}}, []string{"Park Jiho"}},
		{"age range inclusive", Criteria{AgeMin: intPtr(24), AgeMax: intPtr(31)}, []string{"김민준", "이서연", "최지우"}},
		{"age min only", Criteria{AgeMin: intPtr(40)}, []string{"Park Jiho"}},
		{"interest substring", Criteria{Interest: "music"}, []string{"김민준", "Park Jiho"}},
		{"value substring", Criteria{Value: "안정"}, []string{"이서연"}},
		{"lifestyle substring", Criteria{Lifestyle: "욜로"}, []string{"최지우"}},
		{"occupation substring", Criteria{Occupation: "마케팅"}, []string{"Park Jiho"}},
		{"conjunction", Criteria{Genders: []string{"남성"}, Interest: "music", AgeMax: intPtr(30)}, []string{"김민준"}},
		{"no match", Criteria{Locations: []string{"제주"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Apply(workingSet(), tt.criteria))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyIsIdempotentAndDeterministic(t *testing.T) {
	c := Criteria{Genders: []string{"여성"}, Text: "서"}
	once := Apply(workingSet(), c)
	twice := Apply(once, c)
	again := Apply(workingSet(), c)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second application changed result (-once +twice):\n%s", diff)
	}
	if diff := cmp.Diff(once, again); diff != "" {
		t.Errorf("repeated application differs (-first +second):\n%s", diff)
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	w := workingSet()
	before := models.CloneAll(w)
	_ = Apply(w, Criteria{Genders: []string{"여성"}})
	if diff := cmp.Diff(before, w); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}

func TestBlankSetValuesAreIgnored(t *testing.T) {
	c := Criteria{Genders: []string{"", "  "}}
	assert.Len(t, Apply(workingSet(), c), 4)
}

func TestParseQuery(t *testing.T) {
	q := url.Values{
		"q":        {"engineer"},
		"gender":   {"남성,여성"},
		"location": {"서울", "부산"},
		"age_min":  {"20"},
		"age_max":  {" 29 "},
		"interest": {"music"},
	}
	c, err := ParseQuery(q)
	require.NoError(t, err)

	assert.Equal(t, "engineer", c.Text)
	assert.Equal(t, []string{"남성", "여성"}, c.Genders)
	assert.Equal(t, []string{"서울", "부산"}, c.Locations)
	require.NotNil(t, c.AgeMin)
	require.NotNil(t, c.AgeMax)
	assert.Equal(t, 20, *c.AgeMin)
	assert.Equal(t, 29, *c.AgeMax)
	assert.Equal(t, "music", c.Interest)

	assert.Equal(t, []string{"김민준"}, names(Apply(workingSet(), c)))
}

func TestParseQueryRejectsBadAge(t *testing.T) {
	_, err := ParseQuery(url.Values{"age_min": {"twenty"}})
	assert.True(t, apperr.Is(err, apperr.InvalidFilter))
}

func TestParseQueryEmpty(t *testing.T) {
	c, err := ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}

func TestSummarize(t *testing.T) {
	s := Summarize(workingSet())
	assert.Equal(t, 4, s.Total)
	// (24+31+45+29)/4 = 32.25
	assert.Equal(t, 32, s.AverageAge)
	assert.Equal(t, "서울", s.TopLocation)
	assert.Equal(t, map[string]int{"남성": 2, "여성": 2}, s.Genders)
}

func TestSummarizeTopLocationTieGoesToFirstOccurrence(t *testing.T) {
	tests := []struct {
		name      string
		locations []string
		want      string
	}{
		{"A B B A", []string{"A", "B", "B", "A"}, "A"},
		{"B A A B", []string{"B", "A", "A", "B"}, "B"},
		{"clear winner", []string{"A", "B", "B"}, "B"},
		{"all distinct", []string{"C", "A", "B"}, "C"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]models.PersonaRecord, len(tt.locations))
			for i, loc := range tt.locations {
				records[i] = models.PersonaRecord{Location: loc}
			}
			assert.Equal(t, tt.want, Summarize(records).TopLocation)
		})
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.AverageAge)
	assert.Equal(t, "", s.TopLocation)
	assert.Empty(t, s.Genders)
}
