package model

import (
	"context"
	"fmt"
	"sync"

	"mcpchat/api"
)

const errSendMessage = "Failed to send message"

// SessionIDFunc reports the session id to attach to chat requests, or ""
// when there is none.
type SessionIDFunc func() string

// ConversationState is a point-in-time copy of the conversation store.
// Error is empty when there is no error.
type ConversationState struct {
	Messages []Message
	Loading  bool
	Error    string
}

// ConversationStore owns the message log. Messages are kept in insertion
// order and only ClearMessages removes them.
type ConversationStore struct {
	notifier

	mu      sync.RWMutex
	state   ConversationState
	seq     uint64
	sendGen uint64

	gateway           Gateway
	sessionID         SessionIDFunc
	fallbackSessionID string
	opts              options
}

// NewConversationStore wires the store to its gateway and to a read-only
// view of the current session id. fallbackSessionID is used whenever
// sessionID is nil or returns "".
func NewConversationStore(gateway Gateway, sessionID SessionIDFunc, fallbackSessionID string, opts ...Option) *ConversationStore {
	return &ConversationStore{
		gateway:           gateway,
		sessionID:         sessionID,
		fallbackSessionID: fallbackSessionID,
		opts:              buildOptions(opts),
		state: ConversationState{
			Messages: []Message{},
		},
	}
}

// State returns a copy that later mutations will not affect.
func (s *ConversationStore) State() ConversationState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Messages = append([]Message{}, s.state.Messages...)
	return st
}

func (s *ConversationStore) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message{}, s.state.Messages...)
}

func (s *ConversationStore) update(fn func(st *ConversationState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
}

// newMessageLocked stamps a message with the current time and an id that
// stays unique even when two messages share a millisecond.
func (s *ConversationStore) newMessageLocked(content string, isUser bool) Message {
	now := s.opts.now()
	s.seq++
	return Message{
		ID:        fmt.Sprintf("%d-%d", now.UnixMilli(), s.seq),
		Content:   content,
		IsUser:    isUser,
		Timestamp: now,
	}
}

// AddMessage appends a message and returns it.
func (s *ConversationStore) AddMessage(content string, isUser bool) Message {
	var msg Message
	s.update(func(st *ConversationState) {
		msg = s.newMessageLocked(content, isUser)
		st.Messages = append(st.Messages, msg)
	})
	return msg
}

// UpdateMessage merges patch into the message with the given id and reports
// whether one was found.
func (s *ConversationStore) UpdateMessage(id string, patch MessagePatch) bool {
	found := false
	s.update(func(st *ConversationState) {
		for i := range st.Messages {
			if st.Messages[i].ID == id {
				patch.apply(&st.Messages[i])
				found = true
				return
			}
		}
	})
	return found
}

func (s *ConversationStore) ClearMessages() {
	s.update(func(st *ConversationState) {
		st.Messages = []Message{}
	})
}

func (s *ConversationStore) SetLoading(loading bool) {
	s.update(func(st *ConversationState) {
		st.Loading = loading
	})
}

// SetError sets the store-level error. "" clears it.
func (s *ConversationStore) SetError(msg string) {
	s.update(func(st *ConversationState) {
		st.Error = msg
	})
}

func (s *ConversationStore) currentSessionID() string {
	if s.sessionID != nil {
		if id := s.sessionID(); id != "" {
			return id
		}
	}
	return s.fallbackSessionID
}

// SendMessage records content as a user message before anything else, then
// asks the backend for a reply. The user message stays in the log whatever
// happens next. Failures end up in Error; Loading is false on return.
//
// The store does not validate content; callers reject blank input.
func (s *ConversationStore) SendMessage(ctx context.Context, content string) {
	opID := newOpID()

	var gen uint64
	s.update(func(st *ConversationState) {
		st.Messages = append(st.Messages, s.newMessageLocked(content, true))
		s.sendGen++
		gen = s.sendGen
		st.Loading = true
		st.Error = ""
	})

	sessionID := s.currentSessionID()
	logf("[ConversationStore] %s send (session %s, %d chars)", opID, sessionID, len(content))

	var (
		resp *api.ChatResponse
		err  error
	)
	defer func() {
		s.finishSend(opID, gen, resp, err)
	}()

	resp, err = s.gateway.SendChatMessage(ctx, api.ChatRequest{
		Message:   content,
		SessionID: sessionID,
	})
}

func (s *ConversationStore) finishSend(opID string, gen uint64, resp *api.ChatResponse, err error) {
	s.update(func(st *ConversationState) {
		if s.opts.latestOnly && gen != s.sendGen {
			logf("[ConversationStore] %s reply discarded (superseded)", opID)
			return
		}

		st.Loading = false

		switch {
		case err != nil || resp == nil:
			st.Error = errorText(err, errSendMessage)
			logf("[ConversationStore] %s send failed: %s", opID, st.Error)
		case resp.Error != "":
			st.Error = resp.Error
			logf("[ConversationStore] %s backend error: %s", opID, st.Error)
		default:
			st.Messages = append(st.Messages, s.newMessageLocked(resp.Response, false))
		}
	})
}
