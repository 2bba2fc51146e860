// Package llm adapts Google's Gemini API to the assistant's Model interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/aube/internal/domain/assistant"
	"github.com/okian/aube/pkg/logger"
	"github.com/okian/aube/pkg/metrics"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"
)

// Defaults for the chat model.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = float32(0.7)
	breakerName        = "gemini"
)

// Consecutive failures that open the breaker.
const tripAfter = 5

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Gemini calls the Gemini chat API behind a circuit breaker.
type Gemini struct {
	model       string
	temperature float32
	system      string
	generate    generateFunc
	breaker     gobreaker.Settings
	cb          *gobreaker.CircuitBreaker
	log         logger.Logger
}

var _ assistant.Model = (*Gemini)(nil)

// New creates a Gemini adapter. An empty apiKey is rejected so callers can
// fall back to the offline assistant.
func New(ctx context.Context, apiKey string, opts ...Option) (*Gemini, error) {
	g := newGemini(opts...)
	if g.generate == nil {
		if apiKey == "" {
			return nil, ErrMissingAPIKey
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		g.generate = client.Models.GenerateContent
	}
	return g, nil
}

func newGemini(opts ...Option) *Gemini {
	g := &Gemini{
		model:       DefaultModel,
		temperature: DefaultTemperature,
		system:      assistant.SystemInstruction,
		breaker: gobreaker.Settings{
			Name:        breakerName,
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Get().Named("gemini")
	}

	g.breaker.ReadyToTrip = func(c gobreaker.Counts) bool {
		return c.ConsecutiveFailures >= tripAfter
	}
	g.breaker.IsSuccessful = func(err error) bool {
		// A caller giving up is not an upstream failure.
		return err == nil || errors.Is(err, context.Canceled)
	}
	g.breaker.OnStateChange = func(name string, from, to gobreaker.State) {
		metrics.UpdateBreakerState(name, int(to))
		g.log.Warn(context.Background(), "circuit breaker state changed",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()))
	}
	g.cb = gobreaker.NewCircuitBreaker(g.breaker)
	metrics.UpdateBreakerState(breakerName, int(gobreaker.StateClosed))
	return g
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.model }

// State returns the breaker state.
func (g *Gemini) State() gobreaker.State { return g.cb.State() }

// Generate sends history plus prompt and returns the model's text. An open
// breaker yields ErrChatUnavailable without calling the API.
func (g *Gemini) Generate(ctx context.Context, history []assistant.Message, prompt string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, genai.NewContentFromText(m.Text, role(m.Role)))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.system, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
	}

	out, err := g.cb.Execute(func() (interface{}, error) {
		resp, err := g.generate(ctx, g.model, contents, cfg)
		if err != nil {
			return nil, err
		}
		return resp.Text(), nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", ErrChatUnavailable, err)
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return out.(string), nil
}

func role(r assistant.Role) genai.Role {
	if r == assistant.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}
