// Package hebrew holds the script-specific text handling used by the game:
// the fixed token segmenter that drives slot generation, plus the nikud and
// script helpers used by dictionary search.
package hebrew

import (
	"iter"
	"regexp"
	"strings"
)

// TokenKind classifies a token produced by Tokenize.
type TokenKind int

const (
	// KindWord is a maximal run of script letters, marks and apostrophes.
	KindWord TokenKind = iota
	// KindNewline is a single line break.
	KindNewline
	// KindSeparator is a maximal run of punctuation and spaces.
	KindSeparator
)

func (k TokenKind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindNewline:
		return "newline"
	case KindSeparator:
		return "separator"
	default:
		return "unknown"
	}
}

// Token is one match of the segmenter.
type Token struct {
	Kind TokenKind
	Text string
	// Offset is the byte offset of Text within the tokenized string.
	Offset int
}

// tokenPattern is the three-way alternation: script words (letters, marks,
// geresh, apostrophes, maqaf), a single newline, or a run of punctuation and
// horizontal whitespace. Latin letters and digits are accepted as word
// characters so mixed-script sentences still yield one token per word.
var tokenPattern = regexp.MustCompile(
	`([\x{0590}-\x{05FF}\x{FB1D}-\x{FB4F}'’\p{L}\p{M}\p{N}\-]+)` +
		`|(\n)` +
		`|([.,:?!;\t\r\f\v \x{00A0}]+)`,
)

// Tokenize lazily splits s into word, newline and separator tokens.
// Characters matched by none of the alternatives (emoji, stray symbols) are
// emitted as separator tokens so the concatenation of all token texts always
// reconstructs s.
func Tokenize(s string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		pos := 0
		for pos < len(s) {
			loc := tokenPattern.FindStringSubmatchIndex(s[pos:])
			if loc == nil {
				yield(Token{Kind: KindSeparator, Text: s[pos:], Offset: pos})
				return
			}
			start, end := pos+loc[0], pos+loc[1]
			if start > pos {
				if !yield(Token{Kind: KindSeparator, Text: s[pos:start], Offset: pos}) {
					return
				}
			}
			kind := KindSeparator
			switch {
			case loc[2] >= 0:
				kind = KindWord
			case loc[4] >= 0:
				kind = KindNewline
			}
			if !yield(Token{Kind: kind, Text: s[start:end], Offset: start}) {
				return
			}
			pos = end
		}
	}
}

// Tokens collects Tokenize into a slice.
func Tokens(s string) []Token {
	var out []Token
	for tok := range Tokenize(s) {
		out = append(out, tok)
	}
	return out
}

// Words returns the texts of the word tokens in s, in order.
func Words(s string) []string {
	var out []string
	for tok := range Tokenize(s) {
		if tok.Kind == KindWord {
			out = append(out, tok.Text)
		}
	}
	return out
}

// Join concatenates token texts.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}
