package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
)

// ParseQuery builds criteria from URL query parameters. Set-valued
// parameters may repeat or carry comma separated values:
//
//	?gender=여성&gender=남성&age_min=20&age_max=29&q=engineer&interest=music
func ParseQuery(q url.Values) (Criteria, error) {
	c := Criteria{
		Text:            q.Get("q"),
		Genders:         multi(q, "gender"),
		Locations:       multi(q, "location"),
		MaritalStatuses: multi(q, "marital_status"),
		Educations:      multi(q, "education"),
		IncomeBrackets:  multi(q, "income_bracket"),
		Occupation:      q.Get("occupation"),
		Interest:        q.Get("interest"),
		Value:           q.Get("value"),
		Lifestyle:       q.Get("lifestyle"),
	}

	var err error
	if c.AgeMin, err = optionalInt(q, "age_min"); err != nil {
		return Criteria{}, err
	}
	if c.AgeMax, err = optionalInt(q, "age_max"); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

func multi(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func optionalInt(q url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Newf(apperr.InvalidFilter, "%s must be an integer, got %q", key, raw)
	}
	return &n, nil
}
