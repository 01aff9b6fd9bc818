package classify

import (
	"fmt"
	"strings"
)

// Decision is the binary follow-up verdict for a patient.
type Decision string

const (
	NeedsFollowUp Decision = "Needs Follow-up"
	NoFollowUp    Decision = "No Follow-up"
)

// LabelRule says which decision a label maps to on either side of the
// confidence threshold.
type LabelRule struct {
	Confident Decision // confidence >= threshold
	Uncertain Decision // confidence < threshold
}

// Policy is the explicit label-to-decision table plus confidence threshold.
// It replaces the fixed sentiment heuristic so the mapping can be swapped or
// tuned without touching adapter code.
type Policy struct {
	Threshold float64
	rules     map[string]LabelRule
}

// NewPolicy validates the table at construction. Labels are matched
// case-insensitively. An invalid threshold, empty table, or unknown decision
// value is a configuration error and must abort the run before any patient
// is processed.
func NewPolicy(threshold float64, table map[string]LabelRule) (*Policy, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("confidence threshold %v outside [0,1]", threshold)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("label decision table is empty")
	}
	rules := make(map[string]LabelRule, len(table))
	for label, rule := range table {
		key := strings.ToUpper(strings.TrimSpace(label))
		if key == "" {
			return nil, fmt.Errorf("label decision table has a blank label")
		}
		for _, d := range []Decision{rule.Confident, rule.Uncertain} {
			if d != NeedsFollowUp && d != NoFollowUp {
				return nil, fmt.Errorf("label %s maps to unknown decision %q", key, d)
			}
		}
		rules[key] = rule
	}
	return &Policy{Threshold: threshold, rules: rules}, nil
}

// DefaultPolicy mirrors the follow-up heuristic this table replaced: a
// confidently positive read means no follow-up, everything else warrants one.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(0.8, map[string]LabelRule{
		"POSITIVE": {Confident: NoFollowUp, Uncertain: NeedsFollowUp},
		"NEGATIVE": {Confident: NeedsFollowUp, Uncertain: NeedsFollowUp},
	})
	if err != nil {
		panic(err)
	}
	return p
}

// Decide maps a raw (label, confidence) pair to a decision and a short
// reason. An unrecognized label is an error, never a silent default.
func (p *Policy) Decide(label string, confidence float64) (Decision, string, error) {
	rule, ok := p.rules[strings.ToUpper(strings.TrimSpace(label))]
	if !ok {
		return "", "", fmt.Errorf("unrecognized label %q", label)
	}
	if confidence >= p.Threshold {
		return rule.Confident, fmt.Sprintf("%s at %.2f >= %.2f threshold", strings.ToUpper(label), confidence, p.Threshold), nil
	}
	return rule.Uncertain, fmt.Sprintf("%s at %.2f below %.2f threshold", strings.ToUpper(label), confidence, p.Threshold), nil
}
