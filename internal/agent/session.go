package agent

import (
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/xid"
)

// Sessions keeps each conversation's history in memory. Nothing is
// persisted; a restart forgets every session.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*session
}

// session serializes turns: one Reply at a time per conversation.
type session struct {
	mu      sync.Mutex
	history []anthropic.MessageParam
}

func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*session)}
}

// Start opens a new empty conversation and returns its id.
func (s *Sessions) Start() string {
	id := xid.New().String()
	s.mu.Lock()
	s.byID[id] = &session{}
	s.mu.Unlock()
	return id
}

// End forgets a conversation.
func (s *Sessions) End(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}

// open reports the number of open conversations.
func (s *Sessions) open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// History returns a copy of the messages exchanged so far.
func (s *Sessions) History(id string) ([]anthropic.MessageParam, bool) {
	sess, ok := s.lookup(id)
	if !ok {
		return nil, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]anthropic.MessageParam, len(sess.history))
	copy(out, sess.history)
	return out, true
}

func (s *Sessions) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	return sess, ok
}
