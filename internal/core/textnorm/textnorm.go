// Package textnorm folds post text and tag tokens into comparable forms
// Fold pipeline
// 1 drop invalid UTF-8
// 2 NFKC
// 3 case fold
// 4 strip combining marks and format chars (ZWJ, ZWNJ, BOM)
// 5 width fold fullwidth to ASCII
// 6 collapse whitespace runs to one space and trim
package textnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transformer chains keep state, so each caller takes its own
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Fold returns the comparison form of s. Two texts that differ only in case,
// width, accents or spacing fold to the same string.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), " ")
}

// Tag cleans a hashtag, mention or topic token: NFKC, trimmed, leading '#'
// and '@' removed, inner whitespace collapsed. Case is preserved.
func Tag(s string) string {
	s = norm.NFKC.String(strings.ToValidUTF8(s, ""))
	s = strings.TrimLeft(strings.TrimSpace(s), "#@")
	return strings.Join(strings.Fields(s), " ")
}

// TagKey is the de-duplication key for tokens cleaned by Tag
func TagKey(s string) string { return Fold(Tag(s)) }
