// Package relay answers assistant chat requests through an ordered chain of
// strategies: the configured AI providers first, then a canned answer that
// never fails. Streaming answers are relayed as server-sent events.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/comigor/prepbuddy/internal/config"
	"github.com/comigor/prepbuddy/internal/history"
	"github.com/comigor/prepbuddy/internal/llm"
	"github.com/comigor/prepbuddy/internal/logger"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	doneEvent = "data: [DONE]\n\n"
)

// Turn is a prior message sent as conversation history. Timestamp is passed
// through undecoded; clients send it in whatever format they keep.
type Turn struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

// Request is the body accepted by the assistant endpoint.
type Request struct {
	Message             string `json:"message"`
	Context             string `json:"context,omitempty"`
	UserID              string `json:"userId,omitempty"`
	Stream              bool   `json:"stream,omitempty"`
	ConversationHistory []Turn `json:"conversationHistory,omitempty"`
}

// Prompt is the text sent upstream: the message, prefixed by the optional context.
func (r Request) Prompt() string {
	if r.Context == "" {
		return r.Message
	}
	return fmt.Sprintf("Context: %s\n\nQuestion: %s", r.Context, r.Message)
}

// Validate rejects requests without a usable message.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return &ValidationError{Field: "message", Msg: "Message is required"}
	}
	return nil
}

// Response is the non-streaming answer.
type Response struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
	Fallback  bool      `json:"fallback,omitempty"`
}

// HistorySaver persists answered exchanges.
type HistorySaver interface {
	Save(ctx context.Context, rec history.Record) error
}

// Relay runs requests through its strategy chain.
type Relay struct {
	strategies []Strategy
	saver      HistorySaver
	now        func() time.Time

	tracer trace.Tracer
	tiers  metric.Int64Counter
}

// Option customizes a Relay.
type Option func(*Relay)

// WithHistory persists non-streaming exchanges of identified users.
func WithHistory(s HistorySaver) Option {
	return func(r *Relay) { r.saver = s }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

// New returns a Relay trying providers in order. A canned tier spaced by
// wordInterval is always appended last.
func New(providers []Strategy, wordInterval time.Duration, opts ...Option) *Relay {
	r := &Relay{
		strategies: append(append([]Strategy{}, providers...), NewCannedStrategy(wordInterval)),
		now:        time.Now,
		tracer:     otel.Tracer("github.com/comigor/prepbuddy/internal/relay"),
	}
	counter, err := otel.Meter("github.com/comigor/prepbuddy/internal/relay").Int64Counter(
		"relay.tier.used",
		metric.WithDescription("Answers served per strategy tier"),
	)
	if err != nil {
		logger.L.Warn("failed to create relay tier counter", "error", err)
	}
	r.tiers = counter
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromConfig builds the provider tiers that have credentials configured.
func NewFromConfig(providers config.ProvidersConfig, relayCfg config.RelayConfig, opts ...Option) *Relay {
	var tiers []Strategy
	for _, p := range []config.ProviderConfig{providers.Primary, providers.Secondary} {
		if !p.Enabled() {
			logger.L.Warn("provider not configured; skipping tier", "provider", p.Name)
			continue
		}
		tiers = append(tiers, NewProviderStrategy(llm.NewClient(p, nil), p))
	}
	return New(tiers, relayCfg.WordInterval, opts...)
}

func (r *Relay) record(ctx context.Context, tier, mode string) {
	if r.tiers == nil {
		return
	}
	r.tiers.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", tier), attribute.String("mode", mode)))
}

// Complete answers req without streaming. The canned tier guarantees an
// answer, so the only error is a ValidationError.
func (r *Relay) Complete(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}
	prompt := req.Prompt()

	var answer, tier string
	var fallback bool
	for _, s := range r.strategies {
		spanCtx, span := r.tracer.Start(ctx, "relay.complete", trace.WithAttributes(attribute.String("tier", s.Name())))
		text, err := s.Complete(spanCtx, prompt, req.ConversationHistory)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			logger.L.Warn("tier failed; trying next", "tier", s.Name(), "error", err)
			continue
		}
		span.End()
		answer, tier = text, s.Name()
		_, fallback = s.(*CannedStrategy)
		break
	}
	r.record(ctx, tier, "complete")
	logger.L.Info("answered", "tier", tier, "mode", "complete")

	if req.UserID != "" && r.saver != nil {
		err := r.saver.Save(ctx, history.Record{UserID: req.UserID, UserMessage: req.Message, AIResponse: answer, CreatedAt: r.now().UTC()})
		if err != nil {
			logger.L.Error("error saving chat message", "user", req.UserID, "error", err)
		}
	}

	return Response{
		Response:  answer,
		Timestamp: r.now().UTC(),
		Fallback:  fallback,
	}, nil
}

// Stream writes the answer to w as server-sent events. Nothing is written
// until a tier has produced its first event, so a failing tier falls through
// to the next. Once committed the stream always ends with the [DONE] event,
// unless the upstream breaks midway, in which case a ProviderError is
// returned and the caller must abort the connection.
func (r *Relay) Stream(ctx context.Context, w http.ResponseWriter, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	prompt := req.Prompt()

	for _, s := range r.strategies {
		spanCtx, span := r.tracer.Start(ctx, "relay.stream", trace.WithAttributes(attribute.String("tier", s.Name())))
		events, first, err := open(spanCtx, s, prompt, req.ConversationHistory)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			logger.L.Warn("streaming tier failed; trying next", "tier", s.Name(), "error", err)
			continue
		}

		r.record(ctx, s.Name(), "stream")
		logger.L.Info("answered", "tier", s.Name(), "mode", "stream")
		err = relayEvents(w, events, first)
		events.Close()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if err != nil && !errors.Is(err, context.Canceled) {
			return &ProviderError{Provider: s.Name(), Err: err}
		}
		return err
	}
	// unreachable while the canned tier is last
	return errors.New("no strategy produced a stream")
}

// open starts a tier stream and reads its first event. first is nil when the
// stream finished without events.
func open(ctx context.Context, s Strategy, prompt string, hist []Turn) (EventStream, []byte, error) {
	events, err := s.Stream(ctx, prompt, hist)
	if err != nil {
		return nil, nil, err
	}
	first, err := events.Recv()
	if errors.Is(err, io.EOF) {
		return events, nil, nil
	}
	if err != nil {
		events.Close()
		return nil, nil, &ProviderError{Provider: s.Name(), Err: err}
	}
	return events, first, nil
}

// SetStreamHeaders sets the headers of a committed event stream.
func SetStreamHeaders(h http.Header) {
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
}

func relayEvents(w http.ResponseWriter, events EventStream, first []byte) error {
	SetStreamHeaders(w.Header())
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	write := func(payload []byte) error {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	if first != nil {
		if err := write(first); err != nil {
			return err
		}
		for {
			payload, err := events.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			if err := write(payload); err != nil {
				return err
			}
		}
	}

	if _, err := io.WriteString(w, doneEvent); err != nil {
		return err
	}
	if flusher != nil {
		flusher.Flush()
	}
	return nil
}
