// Package session keeps the live form sessions, one Controller per operator
// login.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"purchase-sale-backend/internal/form"
	"purchase-sale-backend/internal/logger"
)

// ErrSessionNotFound is returned for an unknown or expired session id.
var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID         string
	Controller *form.Controller
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// ControllerFactory builds the controller of a new session.
type ControllerFactory func(sessionID string) *form.Controller

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	factory  ControllerFactory
	now      func() time.Time
}

func NewRegistry(ttl time.Duration, factory ControllerFactory) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// Create opens a session with a fresh form.
func (r *Registry) Create() *Session {
	id := uuid.NewString()
	now := r.now()
	s := &Session{
		ID:         id,
		Controller: r.factory(id),
		CreatedAt:  now,
		ExpiresAt:  now.Add(r.ttl),
	}

	r.mu.Lock()
	r.sessions[id] = s
	n := len(r.sessions)
	r.mu.Unlock()

	log := logger.WithSession("session", id)
	log.Info().
		Time("expires_at", s.ExpiresAt).
		Int("open_sessions", n).
		Msg("Session created")
	return s
}

// Get returns a live session. Expired sessions are dropped on lookup.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !r.now().Before(s.ExpiresAt) {
		r.Delete(id)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops a session and reports whether it existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		log := logger.WithSession("session", id)
		log.Info().Msg("Session closed")
	}
	return ok
}

// Prune drops every expired session and returns how many were removed.
func (r *Registry) Prune() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
