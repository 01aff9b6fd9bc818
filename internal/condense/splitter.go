package condense

import (
	"regexp"
	"strings"
)

// Sentence boundary: terminal punctuation followed by whitespace. re2 has no
// lookbehind, so the terminator is captured and re-attached after splitting.
var sentenceBoundary = regexp.MustCompile(`([.!?])\s+`)

// SplitSentences breaks raw text into trimmed, non-empty sentences in source
// order. Best-effort punctuation boundary; abbreviations are not special-cased.
func SplitSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	marked := sentenceBoundary.ReplaceAllString(text, "$1\x00")
	var out []string
	for _, part := range strings.Split(marked, "\x00") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
