package classify

import (
	"context"
	"sync"
)

// Score is the raw output of a text-classification collaborator.
type Score struct {
	Label      string
	Confidence float64
}

// Scorer is the contract the adapter requires from a pretrained
// text-classification model. Implementations may fail or time out; they must
// accept text up to the assembler's configured maximum length.
type Scorer interface {
	Score(ctx context.Context, text string) (Score, error)
}

// ConcurrentSafe is implemented by scorers documented as safe for concurrent
// invocation. Everything else is serialized through SerializeUnlessSafe.
type ConcurrentSafe interface {
	SafeForConcurrentUse() bool
}

// serialScorer funnels all calls through a mutex so a stateful model handle
// is never invoked concurrently.
type serialScorer struct {
	mu    sync.Mutex
	inner Scorer
}

func (s *serialScorer) Score(ctx context.Context, text string) (Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Score(ctx, text)
}

// SerializeUnlessSafe wraps scorer with a serializing mutex unless it reports
// itself safe for concurrent use.
func SerializeUnlessSafe(scorer Scorer) Scorer {
	if cs, ok := scorer.(ConcurrentSafe); ok && cs.SafeForConcurrentUse() {
		return scorer
	}
	return &serialScorer{inner: scorer}
}

// ScorerFunc adapts a function to the Scorer interface. Used heavily in tests.
type ScorerFunc func(ctx context.Context, text string) (Score, error)

func (f ScorerFunc) Score(ctx context.Context, text string) (Score, error) { return f(ctx, text) }
