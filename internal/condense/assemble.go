package condense

import (
	"fmt"
	"strings"

	"github.com/joelkehle/clinical-triage/internal/notes"
)

// Assembler merges deduplicated prose and the observation summary into one
// bounded document.
type Assembler struct {
	extractor *LabExtractor
	maxLen    int
	redact    bool
}

// NewAssembler builds the condensation front-end. maxLen bounds the combined
// document length in bytes; it must be positive.
func NewAssembler(extractor *LabExtractor, maxLen int, redact bool) (*Assembler, error) {
	if extractor == nil {
		return nil, fmt.Errorf("lab extractor is required")
	}
	if maxLen <= 0 {
		return nil, fmt.Errorf("max document length must be positive, got %d", maxLen)
	}
	return &Assembler{extractor: extractor, maxLen: maxLen, redact: redact}, nil
}

// Condense runs the full condensation for one patient: redaction, sentence
// deduplication, lab extraction, assembly, truncation. An empty result (no
// sentences and no observations) is an error; the caller records the patient
// as failed.
func (a *Assembler) Condense(rec notes.PatientRecord) (Document, error) {
	noteSet := rec.Notes
	if a.redact {
		noteSet = make([]notes.Note, len(rec.Notes))
		for i, n := range rec.Notes {
			n.RawText = Redact(n.RawText)
			noteSet[i] = n
		}
	}

	sentences := Deduplicate(noteSet)
	observations := a.extractor.Extract(noteSet)
	if len(sentences) == 0 && observations.Len() == 0 {
		return Document{}, fmt.Errorf("condensation produced an empty document for %s", rec.PatientID)
	}

	summary := renderSummary(observations)
	doc := Document{
		PatientID:          rec.PatientID,
		ObservationSummary: summary,
	}

	// Truncation drops trailing whole sentences only. The observation summary
	// is structured signal and is never cut, even when it alone exceeds the
	// budget; Truncated still flags the overflow.
	kept := sentences
	for {
		doc.DeduplicatedText = strings.Join(kept, " ")
		doc.FullText = join(doc.DeduplicatedText, summary)
		if len(doc.FullText) <= a.maxLen || len(kept) == 0 {
			break
		}
		kept = kept[:len(kept)-1]
		doc.Truncated = true
	}
	if len(doc.FullText) > a.maxLen {
		doc.Truncated = true
	}
	return doc, nil
}

// renderSummary formats each series as "Name: v1, v2, ..." joined by newlines,
// in first-encounter name order.
func renderSummary(set *ObservationSet) string {
	var lines []string
	for _, name := range set.Names() {
		series := set.Series(name)
		lines = append(lines, fmt.Sprintf("%s: %s", series.Name, strings.Join(series.Values, ", ")))
	}
	return strings.Join(lines, "\n")
}

func join(prose, summary string) string {
	switch {
	case prose == "":
		return summary
	case summary == "":
		return prose
	default:
		return prose + "\n\n" + summary
	}
}
