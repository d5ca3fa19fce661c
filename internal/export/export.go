// Package export serializes persona records to XLSX and CSV. Both encoders
// are pure and deterministic: the same input always yields the same bytes.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
	"github.com/BerylCAtieno/persona-studio/internal/models"
)

// Columns is the fixed column order of both formats.
var Columns = []string{
	"name",
	"age",
	"gender",
	"location",
	"occupation",
	"education",
	"income_bracket",
	"marital_status",
	"interests",
	"values",
	"lifestyle",
}

// MaxCellChars is the spreadsheet cell length limit. It is enforced for both
// formats so an export never succeeds in one and fails in the other.
const MaxCellChars = 32767

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

// Filename returns Virtual_People_Data_YYYYMMDD_HHMM.<ext> for t.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("Virtual_People_Data_%s.%s", t.Format("20060102_1504"), f)
}

// Encode dispatches to the encoder for f.
func Encode(f Format, records []models.PersonaRecord) ([]byte, error) {
	switch f {
	case FormatXLSX:
		return ToSpreadsheet(records)
	case FormatCSV:
		return ToDelimitedText(records)
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// row is one record flattened to column order. Age stays numeric so the
// spreadsheet encoder can write it as a number; cells[ageColumn] is unused.
type row struct {
	age   int
	cells []string
}

const ageColumn = 1

func (r row) textCells() []string {
	out := make([]string, len(r.cells))
	copy(out, r.cells)
	out[ageColumn] = strconv.Itoa(r.age)
	return out
}

// prepare flattens and validates every record before any output is
// produced, so a bad record fails the whole export.
func prepare(records []models.PersonaRecord) ([]row, error) {
	rows := make([]row, 0, len(records))
	for i, p := range records {
		r := row{
			age: p.Age,
			cells: []string{
				p.Name,
				"",
				p.Gender,
				p.Location,
				p.Occupation,
				p.Education,
				p.IncomeBracket,
				p.MaritalStatus,
				JoinMultiValue(p.Interests),
				JoinMultiValue(p.Values),
				JoinMultiValue(p.Lifestyle),
			},
		}
		for col, v := range r.cells {
			if err := checkCell(v); err != nil {
				return nil, apperr.Wrap(apperr.EncodingError,
					fmt.Sprintf("record %d (%q) column %s", i, p.Name, Columns[col]), err)
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// checkCell rejects values neither format can carry unchanged: invalid
// UTF-8, C0 control characters other than tab and line feed, the XML
// non-characters U+FFFE and U+FFFF, and over-long cells. Carriage returns
// are rejected because a CSV reader folds "\r\n" inside a field to "\n".
func checkCell(v string) error {
	if !utf8.ValidString(v) {
		return fmt.Errorf("value is not valid UTF-8")
	}
	for _, r := range v {
		switch {
		case r == '\r':
			return fmt.Errorf("value contains a carriage return")
		case r < 0x20 && r != '\t' && r != '\n':
			return fmt.Errorf("value contains control character %U", r)
		case r == 0xFFFE || r == 0xFFFF:
			return fmt.Errorf("value contains non-character %U", r)
		}
	}
	if n := utf8.RuneCountInString(v); n > MaxCellChars {
		return fmt.Errorf("value has %d characters, limit is %d", n, MaxCellChars)
	}
	return nil
}
