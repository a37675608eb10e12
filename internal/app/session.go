package app

import "sync"

// Session is optional per-conversation memory. Currently it remembers the
// last successfully resolved item so a follow-up like "and how many
// calories?" can reuse it.
type Session struct {
	mu        sync.Mutex
	lastID    int
	lastQuery string
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) rememberItem(id int, query string) {
	if s == nil || query == "" {
		return
	}
	s.mu.Lock()
	s.lastID = id
	s.lastQuery = query
	s.mu.Unlock()
}

// LastItem returns the most recent resolved item name, or "".
func (s *Session) LastItem() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}
