package classify

import (
	"context"
	"fmt"
	"math"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// OnnxScorerConfig locates a local pretrained text-classification model. The
// label list is index-aligned with the model's logit outputs.
type OnnxScorerConfig struct {
	LibraryPath   string
	ModelPath     string
	TokenizerPath string
	Labels        []string
	MaxSeqLen     int
}

// OnnxScorer runs a sequence-classification model through onnxruntime. The
// handle owns the session: load once at construction, release with Close.
// It is not safe for concurrent use; the adapter serializes access.
type OnnxScorer struct {
	session   *ort.DynamicAdvancedSession
	tk        *tokenizer.Tokenizer
	labels    []string
	maxSeqLen int
}

// NewOnnxScorer initializes the onnxruntime environment (once per process),
// loads the tokenizer and opens an inference session.
func NewOnnxScorer(cfg OnnxScorerConfig) (*OnnxScorer, error) {
	if len(cfg.Labels) < 2 {
		return nil, fmt.Errorf("onnx scorer needs at least two labels, got %d", len(cfg.Labels))
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 512
	}
	if !ort.IsInitialized() {
		if cfg.LibraryPath != "" {
			ort.SetSharedLibraryPath(cfg.LibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", cfg.TokenizerPath, err)
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask"}, []string{"logits"}, nil)
	if err != nil {
		return nil, fmt.Errorf("open model session %s: %w", cfg.ModelPath, err)
	}
	return &OnnxScorer{session: session, tk: tk, labels: cfg.Labels, maxSeqLen: cfg.MaxSeqLen}, nil
}

// Close releases the inference session.
func (s *OnnxScorer) Close() error {
	if s.session != nil {
		err := s.session.Destroy()
		s.session = nil
		return err
	}
	return nil
}

func (s *OnnxScorer) Score(ctx context.Context, text string) (Score, error) {
	if s.session == nil {
		return Score{}, fmt.Errorf("onnx scorer is closed")
	}
	if err := ctx.Err(); err != nil {
		return Score{}, err
	}

	encoding, err := s.tk.EncodeSingle(text, true)
	if err != nil {
		return Score{}, fmt.Errorf("tokenize: %w", err)
	}
	ids := encoding.GetIds()
	if len(ids) == 0 {
		return Score{}, fmt.Errorf("tokenizer produced no tokens")
	}
	if len(ids) > s.maxSeqLen {
		ids = ids[:s.maxSeqLen]
	}

	inputIDs := make([]int64, len(ids))
	mask := make([]int64, len(ids))
	for i, id := range ids {
		inputIDs[i] = int64(id)
		mask[i] = 1
	}
	shape := ort.NewShape(1, int64(len(ids)))
	idTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return Score{}, fmt.Errorf("build input tensor: %w", err)
	}
	defer idTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return Score{}, fmt.Errorf("build mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{idTensor, maskTensor}, outputs); err != nil {
		return Score{}, fmt.Errorf("run inference: %w", err)
	}
	defer outputs[0].Destroy()

	logitsTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return Score{}, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}
	logits := logitsTensor.GetData()
	if len(logits) < len(s.labels) {
		return Score{}, fmt.Errorf("model produced %d logits for %d labels", len(logits), len(s.labels))
	}
	probs := softmax(logits[:len(s.labels)])
	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return Score{Label: s.labels[best], Confidence: float64(probs[best])}, nil
}

func softmax(logits []float32) []float64 {
	max := float64(logits[0])
	for _, v := range logits[1:] {
		if float64(v) > max {
			max = float64(v)
		}
	}
	sum := 0.0
	out := make([]float64, len(logits))
	for i, v := range logits {
		out[i] = math.Exp(float64(v) - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
