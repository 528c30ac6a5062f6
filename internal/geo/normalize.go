// Package geo colors a fixed catalog of regions by sales value.
package geo

import (
	"strings"
	"unicode"
)

// Normalize lower-cases name and drops every rune that is not a letter,
// so "Madhya Pradesh", "madhya-pradesh!!" and "MADHYAPRADESH" share a key.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// aliases maps normalized historical or short names onto catalog keys
var aliases = map[string]string{
	"orissa":                         "odisha",
	"pondicherry":                    "puducherry",
	"uttaranchal":                    "uttarakhand",
	"jammukashmir":                   "jammuandkashmir",
	"nctofdelhi":                     "delhi",
	"newdelhi":                       "delhi",
	"andamannicobarislands":          "andamanandnicobarislands",
	"andamanandnicobar":              "andamanandnicobarislands",
	"dadranagarhaveli":               "dadraandnagarhavelianddamananddiu",
	"damananddiu":                    "dadraandnagarhavelianddamananddiu",
	"dadraandnagarhaveli":            "dadraandnagarhavelianddamananddiu",
	"dadranagarhavelidamandiu":       "dadraandnagarhavelianddamananddiu",
	"dadraandnagarhavelidamananddiu": "dadraandnagarhavelianddamananddiu",
}

// Key normalizes name and resolves known aliases
func Key(name string) string {
	k := Normalize(name)
	if alias, ok := aliases[k]; ok {
		return alias
	}
	return k
}
