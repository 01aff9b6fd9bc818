package classify

import "testing"

func TestPolicyDecide(t *testing.T) {
	policy, err := NewPolicy(0.8, map[string]LabelRule{
		"POSITIVE": {Confident: NoFollowUp, Uncertain: NeedsFollowUp},
		"NEGATIVE": {Confident: NeedsFollowUp, Uncertain: NeedsFollowUp},
	})
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	for _, tc := range []struct {
		label      string
		confidence float64
		want       Decision
	}{
		{"POSITIVE", 0.95, NoFollowUp},
		{"positive", 0.95, NoFollowUp},
		{"POSITIVE", 0.79, NeedsFollowUp},
		{"NEGATIVE", 0.95, NeedsFollowUp},
		{"NEGATIVE", 0.10, NeedsFollowUp},
		{"POSITIVE", 0.80, NoFollowUp}, // threshold is inclusive
	} {
		got, reason, err := policy.Decide(tc.label, tc.confidence)
		if err != nil {
			t.Fatalf("Decide(%s, %v): %v", tc.label, tc.confidence, err)
		}
		if got != tc.want {
			t.Fatalf("Decide(%s, %v) = %s, want %s", tc.label, tc.confidence, got, tc.want)
		}
		if reason == "" {
			t.Fatal("expected a non-empty reason")
		}
	}
}

func TestPolicyUnrecognizedLabel(t *testing.T) {
	policy := DefaultPolicy()
	if _, _, err := policy.Decide("NEUTRAL", 0.9); err == nil {
		t.Fatal("expected error for unrecognized label")
	}
}

func TestNewPolicyValidation(t *testing.T) {
	valid := map[string]LabelRule{"POSITIVE": {Confident: NoFollowUp, Uncertain: NeedsFollowUp}}
	if _, err := NewPolicy(1.5, valid); err == nil {
		t.Fatal("expected error for threshold above 1")
	}
	if _, err := NewPolicy(-0.1, valid); err == nil {
		t.Fatal("expected error for negative threshold")
	}
	if _, err := NewPolicy(0.8, nil); err == nil {
		t.Fatal("expected error for empty table")
	}
	if _, err := NewPolicy(0.8, map[string]LabelRule{"POSITIVE": {Confident: "maybe", Uncertain: NeedsFollowUp}}); err == nil {
		t.Fatal("expected error for unknown decision value")
	}
	if _, err := NewPolicy(0.8, map[string]LabelRule{"  ": {Confident: NoFollowUp, Uncertain: NeedsFollowUp}}); err == nil {
		t.Fatal("expected error for blank label")
	}
}
