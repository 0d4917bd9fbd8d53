// Package langcode canonicalises language codes and makes a coarse,
// script-based guess at the language of a text
package langcode

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// Default is the language assumed when none is known
const Default = "en"

// Canonical returns the BCP 47 canonical form of code ("EN_us" -> "en-US").
// Codes that do not parse are lowercased and returned trimmed; empty stays empty.
func Canonical(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	return tag.String()
}

// Equal reports whether two codes canonicalise to the same tag
func Equal(a, b string) bool { return Canonical(a) == Canonical(b) }

// minLetters is the letter count below which Guess does not commit
const minLetters = 12

// Guess returns a language for text when its script decides it; otherwise "".
// Latin, Han, Cyrillic and Devanagari are ambiguous and never guessed.
func Guess(text string) string {
	var letters, hira, kata, hangul, arabic, hebrew, thai, greek int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.In(r, unicode.Hiragana):
			hira++
		case unicode.In(r, unicode.Katakana):
			kata++
		case unicode.In(r, unicode.Hangul):
			hangul++
		case unicode.In(r, unicode.Arabic):
			arabic++
		case unicode.In(r, unicode.Hebrew):
			hebrew++
		case unicode.In(r, unicode.Thai):
			thai++
		case unicode.In(r, unicode.Greek):
			greek++
		}
	}
	if letters < minLetters {
		return ""
	}
	switch {
	case hira > 0 || kata > 0:
		return "ja"
	case hangul > 0:
		return "ko"
	case arabic > 0:
		return "ar"
	case hebrew > 0:
		return "he"
	case thai > 0:
		return "th"
	case greek > 0:
		return "el"
	}
	return ""
}
