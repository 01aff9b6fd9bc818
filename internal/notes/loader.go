package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadPatients reads every patient directory under dataDir. Each subdirectory
// is one patient; every .txt file inside it is one note. Patients and notes
// are returned in lexical order so runs are reproducible.
func LoadPatients(dataDir string) ([]PatientRecord, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", dataDir, err)
	}

	var patients []PatientRecord
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := LoadPatient(dataDir, entry.Name())
		if err != nil {
			return nil, err
		}
		patients = append(patients, rec)
	}
	sort.Slice(patients, func(i, j int) bool { return patients[i].PatientID < patients[j].PatientID })
	return patients, nil
}

// LoadPatient reads the ordered note set for a single patient directory.
// A patient directory with no .txt files yields an empty note set, not an
// error; the pipeline records that patient as failed at assembly.
func LoadPatient(dataDir, patientID string) (PatientRecord, error) {
	dir := filepath.Join(dataDir, patientID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return PatientRecord{}, fmt.Errorf("read patient dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	rec := PatientRecord{PatientID: patientID}
	for i, name := range names {
		blob, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return PatientRecord{}, fmt.Errorf("read note %s: %w", name, err)
		}
		rec.Notes = append(rec.Notes, Note{
			PatientID:   patientID,
			NoteID:      strings.TrimSuffix(name, ".txt"),
			RawText:     string(blob),
			SourceOrder: i,
		})
	}
	return rec, nil
}
