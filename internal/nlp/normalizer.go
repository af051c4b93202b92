package nlp

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	sentenceSplitter  = regexp.MustCompile(`[.!?]+`)
	paragraphSplitter = regexp.MustCompile(`\n\s*\n`)
	wordPattern       = regexp.MustCompile(`[A-Za-z0-9]+(?:['’][A-Za-z]+)*`)
)

// Normalize lowercases s, drops everything that is not an ASCII letter, digit or
// whitespace and collapses whitespace runs to a single space.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits on whitespace after lowercasing. Punctuation is kept attached.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// Words returns the word tokens of s with punctuation removed, original casing kept.
func Words(s string) []string {
	return wordPattern.FindAllString(s, -1)
}

func SplitSentences(s string) []string {
	parts := sentenceSplitter.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func SplitParagraphs(s string) []string {
	parts := paragraphSplitter.Split(strings.ReplaceAll(s, "\r\n", "\n"), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsBlank reports whether s has no letters or digits at all.
func IsBlank(s string) bool {
	return Normalize(s) == ""
}
