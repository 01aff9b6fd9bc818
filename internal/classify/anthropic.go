package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const scoringSystemPrompt = "You are a clinical triage assistant. You read one condensed clinical document " +
	"and judge the overall outlook it describes. Respond with strict JSON only."

const scoringPromptTemplate = `Classify the overall outlook of the following condensed clinical document.

Label POSITIVE means the document reads as stable or improving (findings unchanged,
no new symptoms, reassuring labs). Label NEGATIVE means it reads as concerning
(new or growing findings, new symptoms, abnormal trends).

Required JSON schema:
{
  "label": "POSITIVE | NEGATIVE",
  "confidence": "float (0.0-1.0)"
}

Document:
%s`

type llmFailureClass int

const (
	failureNone llmFailureClass = iota
	failureTimeout
	failureRateLimit
	failureServer
	failureClient
)

// LLMCaller is the transport seam for the Anthropic-backed scorer.
type LLMCaller interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type AnthropicCaller struct {
	messages AnthropicMessager
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

func NewAnthropicCallerFromEnv() (*AnthropicCaller, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	return &AnthropicCaller{messages: newAnthropicClient(apiKey)}, nil
}

func (a *AnthropicCaller) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.ModelClaudeSonnet4_20250514,
		MaxTokens:   256,
		System:      []anthropic.TextBlockParam{{Text: scoringSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// AnthropicScorer scores documents through a prompted classification call.
// Transient transport failures retry with backoff; malformed responses get
// one corrective retry round before failing.
type AnthropicScorer struct {
	caller LLMCaller
}

func NewAnthropicScorer(caller LLMCaller) *AnthropicScorer {
	return &AnthropicScorer{caller: caller}
}

func (s *AnthropicScorer) Score(ctx context.Context, text string) (Score, error) {
	feedback := ""
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		prompt := fmt.Sprintf(scoringPromptTemplate, text)
		if feedback != "" {
			prompt += "\n\n" + feedback
		}

		raw, err := s.caller.GenerateJSON(ctx, prompt)
		if err != nil {
			class := classifyTransportError(err)
			if class == failureTimeout && ctx.Err() != nil {
				return Score{}, err
			}
			if (class == failureTimeout || class == failureRateLimit || class == failureServer) && attempt < 3 {
				lastErr = err
				time.Sleep(backoffDelay(attempt))
				continue
			}
			return Score{}, fmt.Errorf("scoring transport failure: %w", err)
		}

		raw = strings.TrimSpace(stripCodeFences(raw))
		var out struct {
			Label      string  `json:"label"`
			Confidence float64 `json:"confidence"`
		}
		if err := json.Unmarshal([]byte(raw), &out); err != nil || strings.TrimSpace(out.Label) == "" {
			if attempt < 3 {
				feedback = "Your previous response was not valid JSON for the schema. Respond with only valid JSON."
				lastErr = fmt.Errorf("malformed scoring response: %q", raw)
				continue
			}
			return Score{}, fmt.Errorf("malformed scoring response after retries: %q", raw)
		}
		return Score{Label: out.Label, Confidence: out.Confidence}, nil
	}
	return Score{}, fmt.Errorf("scoring failed after retries: %w", lastErr)
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

func classifyTransportError(err error) llmFailureClass {
	msg := strings.ToLower(err.Error())
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}
	switch {
	case strings.Contains(msg, "429"):
		return failureRateLimit
	case strings.Contains(msg, "status code: 5") || strings.Contains(msg, "server error"):
		return failureServer
	case strings.Contains(msg, "status code: 4"):
		return failureClient
	default:
		return failureServer
	}
}

func backoffDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 1 * time.Second
	}
	return 2 * time.Second
}
