package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/comigor/prepbuddy/internal/config"
	"github.com/comigor/prepbuddy/internal/llm"
)

// EventStream yields the payloads of server-sent "data:" events. Recv returns
// io.EOF once the upstream signalled completion.
type EventStream interface {
	Recv() ([]byte, error)
	Close() error
}

// Strategy is one tier of the answer chain.
type Strategy interface {
	Name() string
	Complete(ctx context.Context, prompt string, history []Turn) (string, error)
	Stream(ctx context.Context, prompt string, history []Turn) (EventStream, error)
}

// ProviderStrategy calls an OpenAI-compatible chat completion endpoint.
type ProviderStrategy struct {
	name   string
	client llm.Client
	cfg    config.ProviderConfig
}

// NewProviderStrategy builds a tier around client using the model, history
// window and sampling parameters in cfg.
func NewProviderStrategy(client llm.Client, cfg config.ProviderConfig) *ProviderStrategy {
	name := cfg.Name
	if name == "" {
		name = cfg.Model
	}
	return &ProviderStrategy{name: name, client: client, cfg: cfg}
}

func (p *ProviderStrategy) Name() string { return p.name }

func (p *ProviderStrategy) request(prompt string, history []Turn) openai.ChatCompletionRequest {
	if n := p.cfg.History; n >= 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for _, turn := range history {
		role := openai.ChatMessageRoleAssistant
		if turn.Role == RoleUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	return openai.ChatCompletionRequest{
		Model:            p.cfg.Model,
		Messages:         messages,
		MaxTokens:        p.cfg.MaxTokens,
		Temperature:      p.cfg.Temperature,
		TopP:             p.cfg.TopP,
		FrequencyPenalty: p.cfg.FrequencyPenalty,
		PresencePenalty:  p.cfg.PresencePenalty,
	}
}

func (p *ProviderStrategy) Complete(ctx context.Context, prompt string, history []Turn) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.request(prompt, history))
	if err != nil {
		return "", &ProviderError{Provider: p.name, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: p.name, Err: errors.New("invalid response format: no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *ProviderStrategy) Stream(ctx context.Context, prompt string, history []Turn) (EventStream, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, p.request(prompt, history))
	if err != nil {
		return nil, &ProviderError{Provider: p.name, Err: err}
	}
	return providerStream{stream: stream}, nil
}

type providerStream struct {
	stream *openai.ChatCompletionStream
}

func (s providerStream) Recv() ([]byte, error) { return s.stream.RecvRaw() }
func (s providerStream) Close() error          { return s.stream.Close() }

// CannedStrategy answers from Canned and never fails. Streams emit one word
// per event, spaced by interval.
type CannedStrategy struct {
	interval time.Duration
}

func NewCannedStrategy(interval time.Duration) *CannedStrategy {
	return &CannedStrategy{interval: interval}
}

func (c *CannedStrategy) Name() string { return "fallback" }

func (c *CannedStrategy) Complete(_ context.Context, prompt string, _ []Turn) (string, error) {
	return Canned(prompt), nil
}

func (c *CannedStrategy) Stream(ctx context.Context, prompt string, _ []Turn) (EventStream, error) {
	return &wordStream{ctx: ctx, words: strings.Split(Canned(prompt), " "), interval: c.interval}, nil
}

type wordStream struct {
	ctx      context.Context
	words    []string
	next     int
	interval time.Duration
}

type wordEvent struct {
	Response string `json:"response"`
}

func (s *wordStream) Recv() ([]byte, error) {
	if s.next >= len(s.words) {
		return nil, io.EOF
	}
	if s.next > 0 && s.interval > 0 {
		t := time.NewTimer(s.interval)
		select {
		case <-s.ctx.Done():
			t.Stop()
			return nil, s.ctx.Err()
		case <-t.C:
		}
	}
	word := s.words[s.next]
	s.next++
	return json.Marshal(wordEvent{Response: word + " "})
}

func (s *wordStream) Close() error { return nil }
