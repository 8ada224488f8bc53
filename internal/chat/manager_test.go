package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comigor/prepbuddy/internal/relay"
)

type fakeRelay struct {
	mu        sync.Mutex
	streamFn  func(ctx context.Context, req relay.Request) (io.ReadCloser, error)
	completed []relay.Request
	answer    string
	err       error
	streamed  []relay.Request
}

func (f *fakeRelay) Stream(ctx context.Context, req relay.Request) (io.ReadCloser, error) {
	f.mu.Lock()
	f.streamed = append(f.streamed, req)
	fn := f.streamFn
	f.mu.Unlock()
	return fn(ctx, req)
}

func (f *fakeRelay) Complete(_ context.Context, req relay.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, req)
	return f.answer, f.err
}

func staticStream(lines ...string) func(context.Context, relay.Request) (io.ReadCloser, error) {
	return func(context.Context, relay.Request) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(strings.Join(lines, "\n\n") + "\n\n")), nil
	}
}

// pipeStream hands each stream's writer to the test; cancelling the request closes it.
func pipeStream(writers chan<- *io.PipeWriter) func(context.Context, relay.Request) (io.ReadCloser, error) {
	return func(ctx context.Context, _ relay.Request) (io.ReadCloser, error) {
		pr, pw := io.Pipe()
		go func() {
			<-ctx.Done()
			pw.CloseWithError(ctx.Err())
		}()
		writers <- pw
		return pr, nil
	}
}

func last(msgs []Message) Message { return msgs[len(msgs)-1] }

func TestNewManager_WelcomeSession(t *testing.T) {
	m := NewManager(&fakeRelay{})
	cur := m.Current()
	require.Equal(t, WelcomeSessionID, cur.ID)
	require.Equal(t, "Welcome Chat", cur.Title)
	require.Len(t, cur.Messages, 1)
	require.Equal(t, RoleAssistant, cur.Messages[0].Role)
	require.True(t, strings.HasPrefix(cur.Messages[0].Content, "# Welcome to PrepBuddy AI!"))
	require.Equal(t, StateIdle, m.State())
}

func TestSessions_CreateSwitchDelete(t *testing.T) {
	m := NewManager(&fakeRelay{})

	require.False(t, m.DeleteSession(WelcomeSessionID), "sole session must survive")
	require.Len(t, m.Sessions(), 1)

	a := m.CreateSession()
	b := m.CreateSession()
	sessions := m.Sessions()
	require.Equal(t, []string{b.ID, a.ID, WelcomeSessionID}, []string{sessions[0].ID, sessions[1].ID, sessions[2].ID})
	require.Equal(t, b.ID, m.Current().ID)
	require.Equal(t, "New Chat", b.Title)
	require.Empty(t, m.Messages())

	require.False(t, m.SwitchSession("nope"))
	require.Equal(t, b.ID, m.Current().ID)

	require.True(t, m.SwitchSession(WelcomeSessionID))
	require.Len(t, m.Messages(), 1)

	// deleting a non-current session keeps the current one
	require.True(t, m.DeleteSession(a.ID))
	require.Equal(t, WelcomeSessionID, m.Current().ID)

	// deleting the current session promotes the first remaining
	require.True(t, m.DeleteSession(WelcomeSessionID))
	require.Equal(t, b.ID, m.Current().ID)
	require.False(t, m.DeleteSession(b.ID))
}

func TestSendMessage_RejectsBlank(t *testing.T) {
	m := NewManager(&fakeRelay{})
	require.False(t, m.SendMessage(""))
	require.False(t, m.SendMessage("  \n "))
	require.Len(t, m.Messages(), 1)
}

func TestSendMessage_StreamsAnswer(t *testing.T) {
	fr := &fakeRelay{streamFn: staticStream(
		`data: {"choices":[{"delta":{"content":"Two "}}]}`,
		`data: {"choices":[{"delta":{"content":"pointers."}}]}`,
		`data: [DONE]`,
		`data: {"response":"ignored after done"}`,
	)}
	m := NewManager(fr, WithUserID("u1"))
	m.CreateSession()

	require.True(t, m.SendMessage("  How do I solve two sum in linear time please?  "))
	m.Wait()

	msgs := m.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, RoleUser, msgs[0].Role)
	require.Equal(t, "How do I solve two sum in linear time please?", msgs[0].Content)
	require.Equal(t, RoleAssistant, msgs[1].Role)
	require.Equal(t, "Two pointers.", msgs[1].Content)
	require.False(t, msgs[1].IsStreaming)
	require.Equal(t, StateIdle, m.State())
	require.Equal(t, "How do I solve two sum in line...", m.Current().Title)

	require.Len(t, fr.streamed, 1)
	require.Equal(t, "u1", fr.streamed[0].UserID)
	require.Empty(t, fr.streamed[0].ConversationHistory)
}

func TestSendMessage_RejectedWhileInFlight(t *testing.T) {
	writers := make(chan *io.PipeWriter, 1)
	m := NewManager(&fakeRelay{streamFn: pipeStream(writers)})

	require.True(t, m.SendMessage("first"))
	pw := <-writers
	require.Equal(t, StateAwaitingFirstByte, m.State())
	require.False(t, m.SendMessage("second"))
	require.False(t, m.RegenerateLastResponse())

	fmt.Fprint(pw, "data: {\"response\":\"ok \"}\n\ndata: [DONE]\n\n")
	pw.Close()
	m.Wait()
	require.Equal(t, StateIdle, m.State())
	require.Len(t, m.Messages(), 3)
}

func TestStopStreaming_KeepsPartialContent(t *testing.T) {
	writers := make(chan *io.PipeWriter, 1)
	fr := &fakeRelay{streamFn: pipeStream(writers), answer: "should not be used"}
	m := NewManager(fr)

	require.True(t, m.SendMessage("explain heaps"))
	pw := <-writers
	fmt.Fprint(pw, "data: {\"response\":\"A heap \"}\n\n")
	require.Eventually(t, func() bool { return m.State() == StateStreaming }, time.Second, 5*time.Millisecond)

	msg := last(m.Messages())
	require.True(t, msg.IsStreaming)
	require.Eventually(t, func() bool { return last(m.Messages()).Content == "A heap " }, time.Second, 5*time.Millisecond)

	m.StopStreaming()
	require.Equal(t, StateIdle, m.State())
	m.Wait()

	msgs := m.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, "A heap ", last(msgs).Content)
	require.False(t, last(msgs).IsStreaming)
	require.Empty(t, fr.completed, "abort is not a transport failure")

	// stopping again is a no-op
	m.StopStreaming()
	require.Equal(t, StateIdle, m.State())
}

func TestStopStreaming_BeforeFirstByte(t *testing.T) {
	writers := make(chan *io.PipeWriter, 1)
	fr := &fakeRelay{streamFn: pipeStream(writers)}
	m := NewManager(fr)

	require.True(t, m.SendMessage("hello"))
	<-writers
	m.StopStreaming()
	m.Wait()
	require.Equal(t, StateIdle, m.State())
	require.Len(t, m.Messages(), 2)
	require.Empty(t, fr.completed)
}

func TestTransportFailure_FallsBackToRegularCall(t *testing.T) {
	writers := make(chan *io.PipeWriter, 1)
	fr := &fakeRelay{streamFn: pipeStream(writers), answer: "Full answer"}
	m := NewManager(fr)

	require.True(t, m.SendMessage("what is a trie?"))
	pw := <-writers
	fmt.Fprint(pw, "data: {\"response\":\"partial \"}\n\n")
	require.Eventually(t, func() bool { return m.State() == StateStreaming }, time.Second, 5*time.Millisecond)
	pw.CloseWithError(errors.New("connection reset"))
	m.Wait()

	msgs := m.Messages()
	require.Len(t, msgs, 4)
	require.Equal(t, "partial ", msgs[2].Content)
	require.False(t, msgs[2].IsStreaming)
	require.Equal(t, "Full answer", msgs[3].Content)
	require.Equal(t, StateIdle, m.State())
	require.Len(t, fr.completed, 1)
	require.Equal(t, "what is a trie?", fr.completed[0].Message)
}

func TestTransportFailure_ApologyWhenFallbackFails(t *testing.T) {
	fr := &fakeRelay{
		streamFn: func(context.Context, relay.Request) (io.ReadCloser, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
		err: errors.New("still down"),
	}
	m := NewManager(fr)

	require.True(t, m.SendMessage("hi"))
	m.Wait()
	msgs := m.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, connectionApology, last(msgs).Content)
	require.Equal(t, StateIdle, m.State())
}

func TestRegenerateLastResponse(t *testing.T) {
	answers := []string{"first answer", "second answer"}
	var calls int
	var mu sync.Mutex
	fr := &fakeRelay{streamFn: func(context.Context, relay.Request) (io.ReadCloser, error) {
		mu.Lock()
		defer mu.Unlock()
		body := fmt.Sprintf("data: {\"response\":%q}\n\ndata: [DONE]\n\n", answers[calls])
		calls++
		return io.NopCloser(strings.NewReader(body)), nil
	}}
	m := NewManager(fr)
	m.CreateSession()
	require.False(t, m.RegenerateLastResponse(), "empty session")

	require.True(t, m.SendMessage("question"))
	m.Wait()
	require.Equal(t, "first answer", last(m.Messages()).Content)

	require.True(t, m.RegenerateLastResponse())
	m.Wait()
	msgs := m.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "question", msgs[0].Content)
	require.Equal(t, "second answer", msgs[1].Content)
	require.Equal(t, "question", fr.streamed[1].Message)
	require.Empty(t, fr.streamed[1].ConversationHistory)
}

func TestRegenerateLastResponse_RequiresUserThenAssistant(t *testing.T) {
	m := NewManager(&fakeRelay{})
	// welcome session ends with a lone assistant message
	require.False(t, m.RegenerateLastResponse())
	require.Len(t, m.Messages(), 1)
}

func TestToTurns_KeepsLastTen(t *testing.T) {
	msgs := make([]Message, 14)
	for i := range msgs {
		msgs[i] = Message{Role: RoleUser, Content: fmt.Sprint(i)}
	}
	turns := toTurns(msgs)
	require.Len(t, turns, 10)
	require.Equal(t, "4", turns[0].Content)
	require.Equal(t, "13", turns[9].Content)
}

func TestOnChange_IsCalled(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	m := NewManager(&fakeRelay{streamFn: staticStream(`data: [DONE]`)}, WithOnChange(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	}))
	m.CreateSession()
	m.SendMessage("hello")
	m.Wait()
	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, calls, 3)
}

// End to end: both providers unreachable, the relay synthesizes the stream.
func TestEndToEnd_FallbackStreamThroughRelay(t *testing.T) {
	srv := httptest.NewServer(relay.NewHandler(relay.New(nil, 0)))
	defer srv.Close()

	m := NewManager(NewHTTPRelay(srv.URL, "", srv.Client()))
	before := len(m.Messages())

	require.True(t, m.SendMessage("hi"))
	m.Wait()

	msgs := m.Messages()
	require.Len(t, msgs, before+2)
	require.Equal(t, RoleUser, msgs[before].Role)
	require.Equal(t, "hi", msgs[before].Content)
	reply := msgs[before+1]
	require.Equal(t, RoleAssistant, reply.Role)
	require.False(t, reply.IsStreaming)
	require.True(t, strings.HasPrefix(reply.Content, "Hello! 👋 I'm PrepBuddy AI"))
	require.Equal(t, relay.Canned("hi")+" ", reply.Content)
}

func TestEmptyStreamStillAnswers(t *testing.T) {
	first := true
	var mu sync.Mutex
	fr := &fakeRelay{streamFn: func(context.Context, relay.Request) (io.ReadCloser, error) {
		mu.Lock()
		defer mu.Unlock()
		body := "data: [DONE]\n\n"
		if first {
			body = "data: {\"response\":\"first answer\"}\n\n" + body
			first = false
		}
		return io.NopCloser(strings.NewReader(body)), nil
	}}
	m := NewManager(fr)
	m.CreateSession()

	require.True(t, m.SendMessage("question"))
	m.Wait()
	require.True(t, m.RegenerateLastResponse())
	m.Wait()

	msgs := m.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, RoleAssistant, msgs[1].Role)
	require.Empty(t, msgs[1].Content)
	require.False(t, msgs[1].IsStreaming)
	require.Equal(t, StateIdle, m.State())
	require.Empty(t, fr.completed, "an empty stream is not a transport failure")
}
