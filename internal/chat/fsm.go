package chat

import (
	"context"

	"github.com/qmuntal/stateless"
)

// State of a session's in-flight request.
type State string

const (
	StateIdle              State = "idle"
	StateAwaitingFirstByte State = "awaiting-first-byte"
	StateStreaming         State = "streaming"
	StateRecovering        State = "recovering"
)

type trigger string

const (
	triggerSend            trigger = "send"
	triggerFirstChunk      trigger = "first-chunk"
	triggerDone            trigger = "done"
	triggerAbort           trigger = "abort"
	triggerTransportFailed trigger = "transport-failed"
	triggerRecovered       trigger = "recovered"
)

// newSessionFSM wires the request lifecycle of s. Callers hold the manager lock
// while firing, so the entry actions mutate s directly.
func newSessionFSM(s *session) *stateless.StateMachine {
	fsm := stateless.NewStateMachine(StateIdle)

	// Idle: every way back here finalizes the streaming message.
	fsm.Configure(StateIdle).
		OnEntry(func(_ context.Context, _ ...any) error {
			s.finishStreaming()
			s.cancel = nil
			return nil
		}).
		Permit(triggerSend, StateAwaitingFirstByte)

	fsm.Configure(StateAwaitingFirstByte).
		Permit(triggerFirstChunk, StateStreaming).
		Permit(triggerDone, StateIdle).
		Permit(triggerAbort, StateIdle).
		Permit(triggerTransportFailed, StateRecovering)

	// Streaming: the first chunk opens an empty assistant message.
	fsm.Configure(StateStreaming).
		OnEntryFrom(triggerFirstChunk, func(_ context.Context, args ...any) error {
			msg := args[0].(Message)
			s.messages = append(s.messages, msg)
			s.streamingID = msg.ID
			return nil
		}).
		Permit(triggerDone, StateIdle).
		Permit(triggerAbort, StateIdle).
		Permit(triggerTransportFailed, StateRecovering)

	// Recovering: the partial answer stays, a fresh one is appended on recovery.
	fsm.Configure(StateRecovering).
		OnEntry(func(_ context.Context, _ ...any) error {
			s.finishStreaming()
			return nil
		}).
		Permit(triggerRecovered, StateIdle)

	return fsm
}
