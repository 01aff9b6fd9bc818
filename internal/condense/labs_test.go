package condense

import (
	"reflect"
	"testing"
)

func mustExtractor(t *testing.T, names []string) *LabExtractor {
	t.Helper()
	e, err := NewLabExtractor(names)
	if err != nil {
		t.Fatalf("NewLabExtractor: %v", err)
	}
	return e
}

func TestExtractAccumulatesAcrossNotesInOrder(t *testing.T) {
	e := mustExtractor(t, DefaultObservationNames)
	set := e.Extract(noteSet(
		"Blood Count: 300. Hemoglobin: 14.0.",
		"Blood Count: 400. Glucose: 95.",
		"Hemoglobin: 13.2. Blood Count: 700.",
	))
	if got := set.Names(); !reflect.DeepEqual(got, []string{"Blood Count", "Hemoglobin", "Glucose"}) {
		t.Fatalf("name order = %q", got)
	}
	if got := set.Series("Blood Count").Values; !reflect.DeepEqual(got, []string{"300", "400", "700"}) {
		t.Fatalf("Blood Count values = %q", got)
	}
	if got := set.Series("Hemoglobin").Values; !reflect.DeepEqual(got, []string{"14.0", "13.2"}) {
		t.Fatalf("Hemoglobin values = %q", got)
	}
}

func TestExtractKeepsRepeatedReadings(t *testing.T) {
	e := mustExtractor(t, DefaultObservationNames)
	set := e.Extract(noteSet("Glucose: 100.", "Glucose: 100."))
	if got := set.Series("Glucose").Values; !reflect.DeepEqual(got, []string{"100", "100"}) {
		t.Fatalf("repeated readings must both appear, got %q", got)
	}
}

func TestExtractCaseInsensitiveAndSeparatorTolerant(t *testing.T) {
	e := mustExtractor(t, DefaultObservationNames)
	set := e.Extract(noteSet("blood count = 250. HEMOGLOBIN - 11.5. Sodium 140."))
	if got := set.Series("Blood Count").Values; !reflect.DeepEqual(got, []string{"250"}) {
		t.Fatalf("lowercase name with = separator: %q", got)
	}
	if got := set.Series("Hemoglobin").Values; !reflect.DeepEqual(got, []string{"11.5"}) {
		t.Fatalf("uppercase name with - separator: %q", got)
	}
	if got := set.Series("Sodium").Values; !reflect.DeepEqual(got, []string{"140"}) {
		t.Fatalf("bare whitespace separator: %q", got)
	}
}

func TestExtractLongestNameWins(t *testing.T) {
	e := mustExtractor(t, DefaultObservationNames)
	set := e.Extract(noteSet("White Blood Cell Count: 8000."))
	if set.Series("Blood Count") != nil {
		t.Fatal("matched the shorter name inside a longer one")
	}
	if got := set.Series("White Blood Cell Count").Values; !reflect.DeepEqual(got, []string{"8000"}) {
		t.Fatalf("White Blood Cell Count values = %q", got)
	}
}

func TestExtractIgnoresUnrecognizedAndMalformed(t *testing.T) {
	e := mustExtractor(t, []string{"Hemoglobin"})
	set := e.Extract(noteSet("Ferritin: 80. Hemoglobin: abc. Hemoglobin: 12."))
	if set.Series("Ferritin") != nil {
		t.Fatal("unrecognized name must not be extracted")
	}
	if got := set.Series("Hemoglobin").Values; !reflect.DeepEqual(got, []string{"12"}) {
		t.Fatalf("malformed token must be skipped, got %q", got)
	}
}

func TestNewLabExtractorRejectsEmptySet(t *testing.T) {
	if _, err := NewLabExtractor(nil); err == nil {
		t.Fatal("expected error for empty name set")
	}
	if _, err := NewLabExtractor([]string{"  "}); err == nil {
		t.Fatal("expected error for blank-only name set")
	}
}
