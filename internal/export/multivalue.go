package export

import "strings"

// Multi-valued fields are flattened into one cell. Tokens are joined with
// MultiValueSeparator; inside a token the escape character is doubled and
// the separator is preceded by the escape character:
//
//	["coding", "music"]  -> coding|music
//	["a|b", `c\d`]       -> a\|b|c\\d
//
// An empty list and a list holding one empty token both flatten to "".
const (
	MultiValueSeparator = '|'
	MultiValueEscape    = '\\'
)

// JoinMultiValue flattens tokens into a single cell value.
func JoinMultiValue(tokens []string) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			b.WriteByte(MultiValueSeparator)
		}
		for _, r := range tok {
			if r == MultiValueSeparator || r == MultiValueEscape {
				b.WriteByte(MultiValueEscape)
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitMultiValue reverses JoinMultiValue. A dangling escape at the end of
// the cell is kept as a literal backslash.
func SplitMultiValue(cell string) []string {
	if cell == "" {
		return nil
	}
	var (
		out     []string
		cur     strings.Builder
		escaped bool
	)
	for _, r := range cell {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == MultiValueEscape:
			escaped = true
		case r == MultiValueSeparator:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune(MultiValueEscape)
	}
	return append(out, cur.String())
}
