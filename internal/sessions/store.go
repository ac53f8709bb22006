// Package sessions holds per-user pipeline state. A session lives until it
// is deleted or sits idle for longer than the configured TTL.
package sessions

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/JaimeStill/auditor/pkg/lifecycle"
)

// Store keeps live sessions in memory with idle expiry.
type Store struct {
	cache  *cache.Cache
	logger *slog.Logger
}

// New creates a Store from a finalized Config.
func New(cfg *Config, logger *slog.Logger) *Store {
	s := &Store{
		cache:  cache.New(cfg.TTLDuration(), cfg.CleanupIntervalDuration()),
		logger: logger.With("system", "sessions"),
	}

	s.cache.OnEvicted(func(key string, v any) {
		if sess, ok := v.(*Session); ok {
			sess.clear()
		}
		s.logger.Info("session ended", "session_id", key)
	})

	return s
}

// Start registers a shutdown hook that ends all live sessions.
func (s *Store) Start(lc *lifecycle.Coordinator) {
	lc.OnShutdown("sessions", func(ctx context.Context) error {
		count := s.cache.ItemCount()
		for id := range s.cache.Items() {
			s.cache.Delete(id)
		}
		s.logger.Info("session store flushed", "sessions", count)
		return nil
	})
}

// Handler returns the HTTP handler for session endpoints.
func (s *Store) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Create starts a new empty session.
func (s *Store) Create() *Session {
	sess := newSession()
	s.cache.Set(sess.ID.String(), sess, cache.DefaultExpiration)
	s.logger.Info("session created", "session_id", sess.ID)
	return sess
}

// Get returns the session with the given id and resets its idle timer.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	key := id.String()

	v, found := s.cache.Get(key)
	if !found {
		return nil, ErrNotFound
	}

	sess := v.(*Session)
	s.cache.Set(key, sess, cache.DefaultExpiration)
	return sess, nil
}

// Resolve returns the session named by the request's {id} path value.
func (s *Store) Resolve(r *http.Request) (*Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, ErrInvalidID
	}
	return s.Get(id)
}

// Delete ends the session with the given id, discarding its slots.
func (s *Store) Delete(id uuid.UUID) error {
	key := id.String()
	if _, found := s.cache.Get(key); !found {
		return ErrNotFound
	}
	s.cache.Delete(key)
	return nil
}

// Count returns the number of live sessions, including expired sessions
// not yet cleaned up.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}
