package server

import "sync"

// SessionState is the mutable state shared by every tool call on a server.
// One value is created per server and handed to handlers through Call.
type SessionState struct {
	mu      sync.Mutex
	counter uint64
}

// NewSessionState creates state with the counter at zero.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Increment adds one to the counter and returns the new value. The read and
// the write happen in one critical section, so concurrent callers always
// observe distinct, consecutive values.
func (s *SessionState) Increment() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return s.counter
}

// Counter returns the current counter value.
func (s *SessionState) Counter() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}
