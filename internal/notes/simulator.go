package notes

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

// SimulatorConfig controls synthetic note generation. Notes for the same
// patient intentionally share sentences so the deduplicator has work to do,
// and repeat lab observations so extracted series carry multiple readings.
type SimulatorConfig struct {
	Patients     int
	NotesPer     int
	SentencesPer int
	Seed         int64
}

var commonSentences = []string{
	"Patient presented with symptoms.",
	"Vital signs stable.",
	"Discussed treatment options.",
	"Patient advised to rest and hydrate.",
	"No acute distress noted.",
	"Follow-up imaging reviewed with the patient.",
	"Patient reports persistent cough.",
	"Chief complaint: shortness of breath.",
	"A small lung nodule was noted on imaging.",
	"Nodule unchanged from prior scan.",
	"Patient denies chest pain.",
	"Smoking cessation counseling provided.",
}

var labNames = []string{
	"Blood Count", "Hemoglobin", "Glucose", "Creatinine",
	"Cholesterol", "Sodium", "Potassium", "WBC",
}

// Simulate writes Patients directories under dataDir, each holding NotesPer
// plain-text notes. Returns the list of generated patient ids.
func Simulate(dataDir string, cfg SimulatorConfig) ([]string, error) {
	if cfg.Patients <= 0 {
		cfg.Patients = 3
	}
	if cfg.NotesPer <= 0 {
		cfg.NotesPer = 3
	}
	if cfg.SentencesPer <= 0 {
		cfg.SentencesPer = 4
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	var ids []string
	for p := 1; p <= cfg.Patients; p++ {
		patientID := fmt.Sprintf("patient_%03d", p)
		dir := filepath.Join(dataDir, patientID)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create patient dir: %w", err)
		}
		for n := 1; n <= cfg.NotesPer; n++ {
			body := buildNote(rng, cfg.SentencesPer)
			path := filepath.Join(dir, fmt.Sprintf("note_%02d.txt", n))
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				return nil, fmt.Errorf("write note %s: %w", path, err)
			}
		}
		ids = append(ids, patientID)
	}
	return ids, nil
}

func buildNote(rng *rand.Rand, sentences int) string {
	body := ""
	for i := 0; i < sentences; i++ {
		body += commonSentences[rng.Intn(len(commonSentences))] + " "
	}
	// One or two lab readings per note.
	labs := 1 + rng.Intn(2)
	for i := 0; i < labs; i++ {
		name := labNames[rng.Intn(len(labNames))]
		body += fmt.Sprintf("%s: %d. ", name, 50+rng.Intn(500))
	}
	return body
}
