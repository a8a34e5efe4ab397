package session

import (
	"sort"
	"strings"
	"sync"
)

// Registry holds the sessions owned by a Service, by ID and by join code.
type Registry struct {
	sessions map[string]*Session
	codes    map[string]*Session
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		codes:    make(map[string]*Session),
	}
}

func (r *Registry) AddSession(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.id] = session
	r.codes[strings.ToUpper(session.code)] = session
}

func (r *Registry) GetSession(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// GetSessionByCode looks a session up by its join code, ignoring case.
func (r *Registry) GetSessionByCode(code string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.codes[strings.ToUpper(code)]
}

func (r *Registry) RemoveSession(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[session.id] == session {
		delete(r.sessions, session.id)
	}

	code := strings.ToUpper(session.code)
	if r.codes[code] == session {
		delete(r.codes, code)
	}
}

// GetSessions returns every session, ordered by name.
func (r *Registry) GetSessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].name < sessions[j].name })
	return sessions
}
