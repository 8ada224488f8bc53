// Package chat keeps the client-side conversation state: named sessions, their
// messages and the lifecycle of the streaming request of each session.
package chat

import (
	"bufio"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"

	"github.com/comigor/prepbuddy/internal/logger"
	"github.com/comigor/prepbuddy/internal/relay"
)

type session struct {
	id        string
	title     string
	messages  []Message
	createdAt time.Time

	fsm         *stateless.StateMachine
	cancel      context.CancelFunc
	streamingID string
}

func (s *session) state() State {
	return s.fsm.MustState().(State)
}

func (s *session) finishStreaming() {
	if s.streamingID == "" {
		return
	}
	for i := range s.messages {
		if s.messages[i].ID == s.streamingID {
			s.messages[i].IsStreaming = false
		}
	}
	s.streamingID = ""
}

func (s *session) snapshot() Session {
	return Session{
		ID:        s.id,
		Title:     s.title,
		Messages:  append([]Message(nil), s.messages...),
		CreatedAt: s.createdAt,
	}
}

// Manager owns the session list. All mutations go through its methods; reads
// return copies.
type Manager struct {
	relay    RelayClient
	userID   string
	onChange func()
	now      func() time.Time
	newID    func() string

	mu       sync.Mutex
	sessions []*session // most recent first
	current  *session
	wg       sync.WaitGroup
}

// Option customizes a Manager.
type Option func(*Manager)

// WithUserID sends userId with every request.
func WithUserID(id string) Option {
	return func(m *Manager) { m.userID = id }
}

// WithOnChange registers a callback invoked after every mutation. It runs
// without the manager lock held and may call read methods.
func WithOnChange(fn func()) Option {
	return func(m *Manager) { m.onChange = fn }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager seeded with the welcome session.
func NewManager(rc RelayClient, opts ...Option) *Manager {
	m := &Manager{
		relay: rc,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}

	welcome := m.newSession(WelcomeSessionID, welcomeTitle)
	welcome.messages = []Message{{ID: "1", Role: RoleAssistant, Content: welcomeMessage, Timestamp: m.now()}}
	m.sessions = []*session{welcome}
	m.current = welcome
	return m
}

func (m *Manager) newSession(id, title string) *session {
	s := &session{id: id, title: title, createdAt: m.now()}
	s.fsm = newSessionFSM(s)
	return s
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}

func (m *Manager) find(id string) *session {
	for _, s := range m.sessions {
		if s.id == id {
			return s
		}
	}
	return nil
}

// Sessions returns all sessions, most recent first.
func (m *Manager) Sessions() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Session, len(m.sessions))
	for i, s := range m.sessions {
		out[i] = s.snapshot()
	}
	return out
}

// Current returns the current session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.snapshot()
}

// Messages returns the messages of the current session.
func (m *Manager) Messages() []Message {
	return m.Current().Messages
}

// State returns the request state of the current session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.state()
}

// CreateSession inserts an empty session at the head and makes it current.
func (m *Manager) CreateSession() Session {
	m.mu.Lock()
	s := m.newSession(m.newID(), newSessionTitle)
	m.sessions = append([]*session{s}, m.sessions...)
	m.current = s
	snap := s.snapshot()
	m.mu.Unlock()

	m.notify()
	return snap
}

// SwitchSession makes id current. Unknown ids are ignored.
func (m *Manager) SwitchSession(id string) bool {
	m.mu.Lock()
	s := m.find(id)
	if s != nil {
		m.current = s
	}
	m.mu.Unlock()

	if s == nil {
		return false
	}
	m.notify()
	return true
}

// DeleteSession removes id. The sole remaining session cannot be deleted.
// When the current session goes, the first remaining one becomes current.
func (m *Manager) DeleteSession(id string) bool {
	m.mu.Lock()
	if len(m.sessions) <= 1 {
		m.mu.Unlock()
		return false
	}
	idx := -1
	for i, s := range m.sessions {
		if s.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return false
	}

	removed := m.sessions[idx]
	if removed.cancel != nil {
		removed.cancel()
	}
	m.sessions = append(m.sessions[:idx:idx], m.sessions[idx+1:]...)
	if m.current == removed {
		m.current = m.sessions[0]
	}
	m.mu.Unlock()

	m.notify()
	return true
}

// SendMessage appends a user message to the current session and starts
// streaming the answer in the background. It is rejected when text is blank
// or the session already has a request in flight.
func (m *Manager) SendMessage(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	m.mu.Lock()
	s := m.current
	if s.state() != StateIdle {
		m.mu.Unlock()
		return false
	}

	prior := append([]Message(nil), s.messages...)
	if len(prior) == 0 {
		s.title = sessionTitle(text)
	}
	s.messages = append(s.messages, Message{ID: m.newID(), Role: RoleUser, Content: text, Timestamp: m.now()})
	m.start(s, text, prior)
	m.mu.Unlock()

	m.notify()
	return true
}

// RegenerateLastResponse drops the last assistant answer and asks again with
// the user message before it. It only runs when the session is idle and its
// messages end with [user, assistant].
func (m *Manager) RegenerateLastResponse() bool {
	m.mu.Lock()
	s := m.current
	n := len(s.messages)
	if s.state() != StateIdle || n < 2 || s.messages[n-2].Role != RoleUser || s.messages[n-1].Role != RoleAssistant {
		m.mu.Unlock()
		return false
	}

	s.messages = s.messages[:n-1]
	text := s.messages[n-2].Content
	prior := append([]Message(nil), s.messages[:n-2]...)
	m.start(s, text, prior)
	m.mu.Unlock()

	m.notify()
	return true
}

// StopStreaming cancels the in-flight request of the current session. Content
// received so far is kept.
func (m *Manager) StopStreaming() {
	m.mu.Lock()
	s := m.current
	if ok, _ := s.fsm.CanFire(triggerAbort); !ok {
		m.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	if err := s.fsm.Fire(triggerAbort); err != nil {
		logger.L.Warn("FSM fire error", "error", err)
	}
	m.mu.Unlock()

	logger.L.Debug("streaming aborted by user", "session", s.id)
	m.notify()
}

// Wait blocks until every background request has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// start moves s to awaiting-first-byte and launches the request. Caller holds m.mu.
func (m *Manager) start(s *session, text string, prior []Message) {
	ctx, cancel := context.WithCancel(context.Background())
	if err := s.fsm.Fire(triggerSend); err != nil {
		logger.L.Warn("FSM fire error", "error", err)
		cancel()
		return
	}
	s.cancel = cancel

	req := relay.Request{Message: text, UserID: m.userID, ConversationHistory: toTurns(prior)}
	m.wg.Add(1)
	go m.run(ctx, cancel, s, req)
}

func toTurns(msgs []Message) []relay.Turn {
	if len(msgs) > historyLimit {
		msgs = msgs[len(msgs)-historyLimit:]
	}
	turns := make([]relay.Turn, len(msgs))
	for i, msg := range msgs {
		ts, _ := msg.Timestamp.MarshalJSON()
		turns[i] = relay.Turn{Role: string(msg.Role), Content: msg.Content, Timestamp: ts}
	}
	return turns
}

// run streams one answer into s.
func (m *Manager) run(ctx context.Context, cancel context.CancelFunc, s *session, req relay.Request) {
	defer m.wg.Done()
	defer cancel()

	body, err := m.relay.Stream(ctx, req)
	if err != nil {
		m.fallBack(ctx, s, req, err)
		return
	}
	defer body.Close()

	var acc strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ev := DecodeLine(scanner.Text())
		if ev.Kind == EventDone {
			break
		}
		if ev.Kind != EventContent {
			continue
		}
		acc.WriteString(ev.Content)
		if !m.applyChunk(ctx, s, acc.String()) {
			return
		}
		m.notify()
	}
	if err := scanner.Err(); err != nil {
		m.fallBack(ctx, s, req, err)
		return
	}

	m.mu.Lock()
	if ctx.Err() == nil {
		if s.state() == StateAwaitingFirstByte {
			// the stream closed without content; the answer is empty
			s.messages = append(s.messages, Message{ID: m.newID(), Role: RoleAssistant, Timestamp: m.now()})
		}
		if err := s.fsm.Fire(triggerDone); err != nil {
			logger.L.Warn("FSM fire error", "error", err)
		}
	}
	m.mu.Unlock()
	m.notify()
}

// applyChunk sets the streaming message content to the accumulated text. It
// reports false once the request was aborted.
func (m *Manager) applyChunk(ctx context.Context, s *session, content string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	if s.state() == StateAwaitingFirstByte {
		msg := Message{ID: m.newID(), Role: RoleAssistant, Timestamp: m.now(), IsStreaming: true}
		if err := s.fsm.Fire(triggerFirstChunk, msg); err != nil {
			logger.L.Warn("FSM fire error", "error", err)
			return false
		}
	}
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == s.streamingID {
			s.messages[i].Content = content
			break
		}
	}
	return true
}

// fallBack handles a transport failure: unless the user aborted, one
// non-streaming call answers instead, falling back to an apology.
func (m *Manager) fallBack(ctx context.Context, s *session, req relay.Request, cause error) {
	m.mu.Lock()
	if ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	if err := s.fsm.Fire(triggerTransportFailed); err != nil {
		logger.L.Warn("FSM fire error", "error", err)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	logger.L.Warn("streaming failed; falling back to a regular request", "session", s.id, "error", cause)
	m.notify()

	answer, err := m.relay.Complete(context.Background(), req)
	if err != nil || answer == "" {
		logger.L.Error("fallback request failed", "session", s.id, "error", err)
		answer = connectionApology
	}

	m.mu.Lock()
	s.messages = append(s.messages, Message{ID: m.newID(), Role: RoleAssistant, Content: answer, Timestamp: m.now()})
	if err := s.fsm.Fire(triggerRecovered); err != nil {
		logger.L.Warn("FSM fire error", "error", err)
	}
	m.mu.Unlock()
	m.notify()
}
