package hebrew

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Block is the Hebrew Unicode block.
var Block = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0590, Hi: 0x05FF, Stride: 1}},
}

// nikud covers the vowel points and cantillation marks (U+0591..U+05C7).
// U+0590 is unassigned and harmless to include.
var nikud = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0590, Hi: 0x05C7, Stride: 1}},
}

// IsHebrew reports whether s contains at least one character of the Hebrew block.
func IsHebrew(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.Is(Block, r)
	}) >= 0
}

// StripNikud removes vowel points and cantillation marks: "מָה?" becomes "מה?".
func StripNikud(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return unicode.Is(nikud, r) }) {
		return s
	}
	out, _, err := transform.String(runes.Remove(runes.In(nikud)), s)
	if err != nil {
		return s
	}
	return out
}
