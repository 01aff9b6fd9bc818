package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joelkehle/clinical-triage/internal/classify"
	"github.com/joelkehle/clinical-triage/internal/condense"
	"github.com/joelkehle/clinical-triage/internal/triage"
)

const (
	ScorerAnthropic = "anthropic"
	ScorerOnnx      = "onnx"
)

// DecisionRule is the YAML form of a label's decision mapping.
type DecisionRule struct {
	Confident string `yaml:"confident"`
	Uncertain string `yaml:"uncertain"`
}

// OnnxConfig locates a local pretrained classification model.
type OnnxConfig struct {
	LibraryPath   string   `yaml:"library_path"`
	ModelPath     string   `yaml:"model_path"`
	TokenizerPath string   `yaml:"tokenizer_path"`
	Labels        []string `yaml:"labels"`
	MaxSeqLen     int      `yaml:"max_seq_len"`
}

// Config is the full configuration surface of the triage workflow. Invalid
// values are fatal at startup, before any patient is processed.
type Config struct {
	DataDir                 string                  `yaml:"data_dir"`
	ResultsDir              string                  `yaml:"results_dir"`
	MaxDocumentLength       int                     `yaml:"max_document_length"`
	RecognizedObservations  []string                `yaml:"recognized_observations"`
	RedactPHI               bool                    `yaml:"redact_phi"`
	ConfidenceThreshold     float64                 `yaml:"confidence_threshold"`
	DecisionTable           map[string]DecisionRule `yaml:"decision_table"`
	WorkerConcurrency       int                     `yaml:"worker_concurrency"`
	ClassificationTimeoutMS int                     `yaml:"classification_timeout_ms"`
	Scorer                  string                  `yaml:"scorer"`
	Onnx                    OnnxConfig              `yaml:"onnx"`
	OTLPEndpoint            string                  `yaml:"otlp_endpoint"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DataDir:                 "data",
		ResultsDir:              "results",
		MaxDocumentLength:       4000,
		RecognizedObservations:  condense.DefaultObservationNames,
		RedactPHI:               true,
		ConfidenceThreshold:     0.8,
		DecisionTable:           defaultDecisionTable(),
		WorkerConcurrency:       1,
		ClassificationTimeoutMS: 30000,
		Scorer:                  ScorerAnthropic,
	}
}

func defaultDecisionTable() map[string]DecisionRule {
	return map[string]DecisionRule{
		"POSITIVE": {Confident: string(classify.NoFollowUp), Uncertain: string(classify.NeedsFollowUp)},
		"NEGATIVE": {Confident: string(classify.NeedsFollowUp), Uncertain: string(classify.NeedsFollowUp)},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		blob, err := os.ReadFile(path)
		if err != nil {
			return Config{}, triage.NewConfigError("read config file", err)
		}
		if err := yaml.Unmarshal(blob, &cfg); err != nil {
			return Config{}, triage.NewConfigError("parse config file", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field the pipeline depends on. Any violation is a
// fatal configuration error.
func (c Config) Validate() error {
	if c.MaxDocumentLength <= 0 {
		return triage.NewConfigError(fmt.Sprintf("max_document_length must be positive, got %d", c.MaxDocumentLength), nil)
	}
	if len(c.RecognizedObservations) == 0 {
		return triage.NewConfigError("recognized_observations is empty", nil)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return triage.NewConfigError(fmt.Sprintf("confidence_threshold %v outside [0,1]", c.ConfidenceThreshold), nil)
	}
	if len(c.DecisionTable) == 0 {
		return triage.NewConfigError("decision_table is empty", nil)
	}
	if c.WorkerConcurrency < 1 {
		return triage.NewConfigError(fmt.Sprintf("worker_concurrency must be >= 1, got %d", c.WorkerConcurrency), nil)
	}
	if c.ClassificationTimeoutMS <= 0 {
		return triage.NewConfigError(fmt.Sprintf("classification_timeout_ms must be positive, got %d", c.ClassificationTimeoutMS), nil)
	}
	if c.Scorer != ScorerAnthropic && c.Scorer != ScorerOnnx {
		return triage.NewConfigError(fmt.Sprintf("unknown scorer %q", c.Scorer), nil)
	}
	if c.Scorer == ScorerOnnx {
		if c.Onnx.ModelPath == "" || c.Onnx.TokenizerPath == "" {
			return triage.NewConfigError("onnx scorer requires model_path and tokenizer_path", nil)
		}
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// Policy builds the classify.Policy from the configured table and threshold.
func (c Config) Policy() (*classify.Policy, error) {
	table := make(map[string]classify.LabelRule, len(c.DecisionTable))
	for label, rule := range c.DecisionTable {
		table[label] = classify.LabelRule{
			Confident: classify.Decision(rule.Confident),
			Uncertain: classify.Decision(rule.Uncertain),
		}
	}
	policy, err := classify.NewPolicy(c.ConfidenceThreshold, table)
	if err != nil {
		return nil, triage.NewConfigError("invalid decision table", err)
	}
	return policy, nil
}

// ClassificationTimeout returns the per-call scoring deadline.
func (c Config) ClassificationTimeout() time.Duration {
	return time.Duration(c.ClassificationTimeoutMS) * time.Millisecond
}
