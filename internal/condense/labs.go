package condense

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/joelkehle/clinical-triage/internal/notes"
)

// DefaultObservationNames is the recognized lab vocabulary used when the
// config does not override it.
var DefaultObservationNames = []string{
	"Blood Count", "Hemoglobin", "Glucose", "Creatinine",
	"Cholesterol", "Sodium", "Potassium", "WBC", "RBC",
	"Platelets", "HbA1c", "TSH", "Hematocrit", "White Blood Cell Count",
}

// LabExtractor scans note text for `<Name><separator><numeric>` readings and
// accumulates them per observation name in encounter order.
type LabExtractor struct {
	pattern   *regexp.Regexp
	canonical map[string]string
}

// NewLabExtractor compiles the recognized-name set into a single scan
// pattern. Matching is case-insensitive and tolerates `:`, `=` or `-` as the
// separator with loose spacing. An empty name set is a configuration error.
func NewLabExtractor(names []string) (*LabExtractor, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("recognized observation name set is empty")
	}
	// Longest names first so "White Blood Cell Count" wins over "Blood Count".
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	canonical := make(map[string]string, len(sorted))
	quoted := make([]string, 0, len(sorted))
	for _, name := range sorted {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		// The configured spelling is the display form ("HbA1c", "WBC"),
		// whatever casing appears in the note text.
		canonical[strings.ToLower(trimmed)] = trimmed
		quoted = append(quoted, regexp.QuoteMeta(trimmed))
	}
	if len(quoted) == 0 {
		return nil, fmt.Errorf("recognized observation name set is empty")
	}

	expr := `(?i)\b(` + strings.Join(quoted, "|") + `)\s*[:=-]?\s*(\d+(?:\.\d+)?)`
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile observation pattern: %w", err)
	}
	return &LabExtractor{pattern: pattern, canonical: canonical}, nil
}

// Extract scans every note in source order and returns the accumulated
// observation series. Values stay in encounter order and are never
// deduplicated. Tokens that fail numeric validation are skipped; the scan
// never aborts.
func (e *LabExtractor) Extract(noteSet []notes.Note) *ObservationSet {
	set := newObservationSet()
	for _, note := range noteSet {
		for _, m := range e.pattern.FindAllStringSubmatch(note.RawText, -1) {
			name, ok := e.canonical[strings.ToLower(strings.TrimSpace(m[1]))]
			if !ok {
				continue
			}
			value := strings.TrimSpace(m[2])
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				continue
			}
			set.append(name, value)
		}
	}
	return set
}
