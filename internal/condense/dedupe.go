package condense

import (
	"strings"

	"github.com/joelkehle/clinical-triage/internal/notes"
)

// Deduplicate walks a patient's notes in source order and returns each
// sentence exactly once, the first time its normalized form is seen across
// the entire note set. The first occurrence keeps its original casing and
// punctuation; output order is first-seen order, never sorted.
func Deduplicate(noteSet []notes.Note) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, note := range noteSet {
		for _, sentence := range SplitSentences(note.RawText) {
			key := normalizeSentence(sentence)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, sentence)
		}
	}
	return out
}

// normalizeSentence case-folds and collapses internal whitespace so sentences
// differing only in case or spacing are treated as duplicates.
func normalizeSentence(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
