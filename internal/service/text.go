package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCase normalises the upper-case names shipped by the datastore.
// A Caser keeps state, so each call gets its own. The word after an
// elided article stays capitalised: "L'AULA" becomes "L'Aula".
func titleCase(s string) string {
	runes := []rune(cases.Title(language.Italian).String(s))
	for i := 1; i < len(runes); i++ {
		if runes[i-1] == '\'' || runes[i-1] == '’' {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
