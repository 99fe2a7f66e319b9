package plays

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTeam trims, collapses whitespace and folds unicode to NFC so that
// the same school spelled by two feeds joins on an exact name match. Case and
// accents are preserved: names are output keys.
func NormalizeTeam(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
