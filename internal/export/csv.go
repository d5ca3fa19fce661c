package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
	"github.com/BerylCAtieno/persona-studio/internal/models"
)

// UTF8BOM prefixes every CSV export so spreadsheet applications decode
// non-Latin text as UTF-8 instead of the local code page.
var UTF8BOM = []byte{0xEF, 0xBB, 0xBF}

// ToDelimitedText encodes records as comma separated text: a UTF-8 BOM, a
// header row, then one row per record, each line ending in \n. Fields
// containing a comma, quote or line break are quoted with inner quotes
// doubled.
func ToDelimitedText(records []models.PersonaRecord) ([]byte, error) {
	rows, err := prepare(records)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(UTF8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, apperr.Wrap(apperr.EncodingError, "write csv header", err)
	}
	for i, r := range rows {
		if err := w.Write(r.textCells()); err != nil {
			return nil, apperr.Wrap(apperr.EncodingError, fmt.Sprintf("write csv row %d", i), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperr.Wrap(apperr.EncodingError, "flush csv", err)
	}
	return buf.Bytes(), nil
}
