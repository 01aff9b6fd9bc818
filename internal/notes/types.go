package notes

// Note is one raw clinical note belonging to a patient. Notes are immutable
// once loaded; SourceOrder is the discovery order within the patient's note
// set and drives deduplication priority and observation sequencing downstream.
type Note struct {
	PatientID   string
	NoteID      string
	RawText     string
	SourceOrder int
}

// PatientRecord is the ordered note set for one patient.
type PatientRecord struct {
	PatientID string
	Notes     []Note
}
