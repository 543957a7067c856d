// Derives attribute names from column display names.

package schema

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonIdent = regexp.MustCompile(`[^a-z0-9]+`)

// Identifier converts a display name to a lower snake case identifier.
//
// Accents are stripped ("Café" becomes "cafe"), every other run of characters
// outside [a-z0-9] becomes a single underscore. An empty result becomes "col"
// and a leading digit is prefixed with "col_".
func Identifier(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	s, _, err := transform.String(t, name)
	if err != nil {
		s = name
	}
	s = nonIdent.ReplaceAllString(strings.ToLower(s), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "col"
	}
	if s[0] >= '0' && s[0] <= '9' {
		return "col_" + s
	}
	return s
}

// uniqueIdentifier returns the first of base, base_2, base_3, ... not in
// taken and records it.
func uniqueIdentifier(base string, taken map[string]bool) string {
	name := base
	for i := 2; taken[name]; i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	taken[name] = true
	return name
}
