// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package justice

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// qualifiers are honorific and designation words dropped from a ponente
// string before matching.
var qualifiers = map[string]bool{
	"acting":    true,
	"chief":     true,
	"associate": true,
	"justice":   true,
	"justices":  true,
	"c.j.":      true,
	"c.j":       true,
	"cj":        true,
	"cj.":       true,
	"j.":        true,
	"j":         true,
	"jj.":       true,
	"jj":        true,
	"ponente":   true,
	"ret.":      true,
}

// suffixes are generational markers kept as part of a name token.
var suffixes = map[string]string{
	"jr":  "jr.",
	"jr.": "jr.",
	"sr":  "sr.",
	"sr.": "sr.",
	"ii":  "ii",
	"iii": "iii",
	"iv":  "iv",
}

// StripDiacritics folds accented runes to their base letters.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CandidateName extracts the matching token from a ponente string:
// diacritics stripped, lowercased, qualifiers removed, generational
// suffixes kept. perCuriam is true when the text names no writer.
//
//	"Hermosisima, Jr., J."  -> "hermosisima jr."
//	"Panganiban, Acting Cj" -> "panganiban"
//	"PER CURIAM:"           -> "", true
func CandidateName(text string) (token string, perCuriam bool) {
	s := strings.ToLower(StripDiacritics(text))
	if strings.Contains(strings.Join(strings.Fields(s), " "), "per curiam") {
		return "", true
	}
	s = strings.NewReplacer(",", " ", ";", " ", ":", " ").Replace(s)

	var kept []string
	for _, w := range strings.Fields(s) {
		w = strings.Trim(w, "*()[]\"'")
		if w == "" || qualifiers[w] {
			continue
		}
		if sfx, ok := suffixes[w]; ok {
			w = sfx
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return "", true
	}
	return strings.Join(kept, " "), false
}

// trimSuffix drops a trailing generational suffix from token.
func trimSuffix(token string) string {
	i := strings.LastIndexByte(token, ' ')
	if i < 0 {
		return token
	}
	if _, ok := suffixes[token[i+1:]]; ok {
		return token[:i]
	}
	return token
}

// lastWord returns the final space-separated word of s.
func lastWord(s string) string {
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		return s[i+1:]
	}
	return s
}

var titleCaser = cases.Title(language.English)

// TitleName renders a roster surname for display, e.g. "de castro" -> "De Castro".
func TitleName(surname string) string {
	return titleCaser.String(strings.ToLower(surname))
}
