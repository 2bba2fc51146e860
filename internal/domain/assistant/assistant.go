// Package assistant answers questions about the forecasting project, either
// from a live language model or with a fixed offline reply.
package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/aube/internal/domain/dedupe"
	"github.com/okian/aube/pkg/logger"
	"github.com/okian/aube/pkg/metrics"
)

// DefaultTimeout bounds a model call when no option overrides it.
const DefaultTimeout = 30 * time.Second

// Model produces the next model turn for a conversation.
type Model interface {
	Generate(ctx context.Context, history []Message, prompt string) (string, error)
}

// Request is one user message plus the conversation so far.
type Request struct {
	MessageID string    `json:"message_id,omitempty" validate:"omitempty,max=128"`
	Message   string    `json:"message" validate:"required,max=4000"`
	History   []Message `json:"history,omitempty" validate:"max=100,dive"`
}

// Reply is the assistant's answer. Duplicate replies carry no text: the
// original answer was already delivered for that message id.
type Reply struct {
	MessageID string    `json:"message_id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Mode      Mode      `json:"mode"`
	Duplicate bool      `json:"duplicate,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Assistant answers chat requests.
type Assistant struct {
	model   Model
	deduper dedupe.Deduper
	timeout time.Duration
	log     logger.Logger
	now     func() time.Time
}

// New creates an assistant. Without WithModel it runs offline.
func New(opts ...Option) *Assistant {
	a := &Assistant{
		deduper: dedupe.NewInMemoryDeduper(),
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Get().Named("assistant")
	}
	return a
}

// Mode reports whether a live model is configured.
func (a *Assistant) Mode() Mode {
	if a.model == nil {
		return ModeOffline
	}
	return ModeOnline
}

// Greeting returns the opening message.
func (a *Assistant) Greeting() Message {
	return GreetingMessage(a.now())
}

// Ask answers req. Upstream failures never surface as errors: the reply then
// carries ErrorReply and Failed is set, and the message id is released so the
// client may retry. Errors are returned only for invalid requests.
func (a *Assistant) Ask(ctx context.Context, req Request) (Reply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return Reply{}, ErrEmptyMessage
	}
	if err := validateHistory(req.History); err != nil {
		return Reply{}, err
	}

	mode := a.Mode()
	id := req.MessageID
	if id == "" {
		id = uuid.NewString()
	} else if a.deduper.SeenAndRecord(ctx, id) {
		metrics.RecordChatDuplicate()
		a.log.Debug(ctx, "duplicate chat message", logger.String("message_id", id))
		return Reply{MessageID: id, Role: RoleModel, Mode: mode, Duplicate: true, Timestamp: a.now()}, nil
	}

	reply := Reply{MessageID: id, Role: RoleModel, Mode: mode}
	if a.model == nil {
		reply.Text = OfflineReply
		reply.Timestamp = a.now()
		metrics.RecordChatRequest(string(mode), "offline")
		return reply, nil
	}

	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	text, err := a.model.Generate(callCtx, req.History, req.Message)
	cancel()
	metrics.RecordChatLatency(float64(time.Since(start).Milliseconds()))

	switch {
	case err != nil:
		if req.MessageID != "" {
			a.deduper.Unrecord(ctx, id)
		}
		a.log.Error(ctx, "model call failed", logger.String("message_id", id), logger.Error(err))
		metrics.RecordChatRequest(string(mode), "error")
		metrics.RecordErrorByComponent("assistant", "model")
		reply.Text = ErrorReply
		reply.Failed = true
	case strings.TrimSpace(text) == "":
		metrics.RecordChatRequest(string(mode), "empty")
		reply.Text = EmptyReply
	default:
		metrics.RecordChatRequest(string(mode), "ok")
		reply.Text = text
	}
	reply.Timestamp = a.now()
	return reply, nil
}
