package condense

import "regexp"

// PHI generalization patterns. Best-effort: names following clinical lead-ins,
// physician references, dates of birth and visit dates.
var redactions = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`Seen by Dr\.\s+[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?`), "Seen by Dr. [DOCTOR_NAME]"},
	{regexp.MustCompile(`Visited Physician:\s+[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?`), "Visited Physician: [DOCTOR_NAME]"},
	{regexp.MustCompile(`Dr\.\s+[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?`), "Dr. [DOCTOR_NAME]"},
	{regexp.MustCompile(`Patient\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\s+\(DOB:`), "Patient [PATIENT_NAME] (DOB:"},
	// re2 has no lookahead; capture the lead-out and put it back.
	{regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+(\s+(?:was seen by|has a history))`), "[PATIENT_NAME]$1"},
	{regexp.MustCompile(`DOB:\s+\d{4}-\d{2}-\d{2}`), "DOB: [DATE_OF_BIRTH]"},
	{regexp.MustCompile(`Date:\s+\d{1,2}/\d{1,2}/\d{4}`), "Date: [DATE]"},
	{regexp.MustCompile(`\bon\s+\d{1,2}/\d{1,2}/\d{4}`), "on [DATE]"},
}

// Redact replaces doctor names, patient names, dates of birth and visit dates
// with generic placeholders before any text leaves the process.
func Redact(text string) string {
	for _, r := range redactions {
		text = r.pattern.ReplaceAllString(text, r.replace)
	}
	return text
}
