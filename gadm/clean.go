package gadm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// CleanName normalizes a raw name field: Latin-1 bytes are decoded
// to UTF-8 (GADM DBF exports are ISO-8859-1), control characters are
// dropped, and runs of whitespace collapse to single spaces. Returns
// "" when nothing printable remains.
func CleanName(raw string) string {
	if !utf8.ValidString(raw) {
		if decoded, err := charmap.ISO8859_1.NewDecoder().String(raw); err == nil {
			raw = decoded
		}
	}

	var b strings.Builder
	b.Grow(len(raw))
	space := false
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r):
			// drop
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitSynonyms splits a raw pipe-delimited alternate-name list into
// cleaned names, dropping entries that clean to nothing.
func SplitSynonyms(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if cleaned := CleanName(p); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
