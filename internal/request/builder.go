package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
	"github.com/BerylCAtieno/persona-studio/internal/models"
)

// Input is a raw form value. It decodes from a JSON string, number or null,
// so form fields posted either way end up as text.
type Input string

func (in *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*in = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*in = Input(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("form value must be a string or number: %w", err)
	}
	*in = Input(n.String())
	return nil
}

func (in Input) trimmed() string {
	return strings.TrimSpace(string(in))
}

// RawInputs are the generation form fields as the UI submits them.
type RawInputs struct {
	Count    Input `json:"count"`
	AgeMin   Input `json:"age_range_min"`
	AgeMax   Input `json:"age_range_max"`
	Gender   Input `json:"gender"`
	Location Input `json:"location"`
}

// Builder turns raw inputs into a validated generation request.
// MaxCount caps the persona count; zero means no cap.
type Builder struct {
	MaxCount int
}

func NewBuilder(maxCount int) *Builder {
	return &Builder{MaxCount: maxCount}
}

// Build validates raw and returns the request payload. It never touches the
// network; failures are *apperr.Error of kind InvalidCount or InvalidAgeRange.
func (b *Builder) Build(raw RawInputs) (models.GenerationRequest, error) {
	count, err := b.parseCount(raw.Count)
	if err != nil {
		return models.GenerationRequest{}, err
	}

	req := models.GenerationRequest{Count: count}

	minText, maxText := raw.AgeMin.trimmed(), raw.AgeMax.trimmed()
	// A lone bound never constrains without its pair.
	if minText != "" && maxText != "" {
		lo, err := parseAge("minimum", minText)
		if err != nil {
			return models.GenerationRequest{}, err
		}
		hi, err := parseAge("maximum", maxText)
		if err != nil {
			return models.GenerationRequest{}, err
		}
		if lo > hi {
			return models.GenerationRequest{}, apperr.Newf(apperr.InvalidAgeRange,
				"minimum age %d is greater than maximum age %d", lo, hi)
		}
		req.Demographics.AgeRange = &models.AgeRange{lo, hi}
	}

	if g := raw.Gender.trimmed(); g != "" {
		req.Demographics.Gender = &g
	}
	if l := raw.Location.trimmed(); l != "" {
		req.Demographics.Location = &l
	}
	return req, nil
}

// Build validates raw with no upper bound on count.
func Build(raw RawInputs) (models.GenerationRequest, error) {
	return (&Builder{}).Build(raw)
}

func (b *Builder) parseCount(in Input) (int, error) {
	text := in.trimmed()
	if text == "" {
		return 0, apperr.New(apperr.InvalidCount, "count is required")
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 0, apperr.Newf(apperr.InvalidCount, "count must be a positive integer, got %q", text)
	}
	if b.MaxCount > 0 && n > b.MaxCount {
		return 0, apperr.Newf(apperr.InvalidCount, "count must not exceed %d, got %d", b.MaxCount, n)
	}
	return n, nil
}

func parseAge(which, text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, apperr.Newf(apperr.InvalidAgeRange, "%s age must be an integer, got %q", which, text)
	}
	if n < 0 {
		return 0, apperr.Newf(apperr.InvalidAgeRange, "%s age must not be negative, got %d", which, n)
	}
	return n, nil
}
