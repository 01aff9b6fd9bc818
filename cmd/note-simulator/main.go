package main

import (
	"flag"
	"log"

	"github.com/joelkehle/clinical-triage/internal/notes"
)

func main() {
	dataDir := flag.String("data-dir", "data", "Directory to write patient note folders into")
	patients := flag.Int("patients", 5, "Number of patients to generate")
	notesPer := flag.Int("notes", 3, "Notes per patient")
	sentences := flag.Int("sentences", 6, "Sentences per note")
	seed := flag.Int64("seed", 42, "Random seed (same seed, same corpus)")
	flag.Parse()

	ids, err := notes.Simulate(*dataDir, notes.SimulatorConfig{
		Patients:     *patients,
		NotesPer:     *notesPer,
		SentencesPer: *sentences,
		Seed:         *seed,
	})
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}
	log.Printf("wrote %d patient(s) under %s: %v", len(ids), *dataDir, ids)
}
