package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/models"
	"github.com/resetgate/resetgate/internal/utils"
)

// MemorySessionStore is an in-process session store.
// It is only safe for single-process deployments.
type MemorySessionStore struct {
	mu    sync.RWMutex
	items map[string]map[string]string
	ttl   time.Duration

	// stop terminates the garbage collection goroutine
	stop chan struct{}
}

// NewMemorySessionStore creates a new in-memory session store with the given
// session lifetime and starts its garbage collection routine.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	s := &MemorySessionStore{
		items: make(map[string]map[string]string),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	go s.gcRoutine()

	return s
}

// Get retrieves the session stored under the given scope.
func (s *MemorySessionStore) Get(ctx context.Context, scope string) (*models.ResetSession, error) {
	_ = ctx

	s.mu.RLock()
	fields, ok := s.items[scope]
	s.mu.RUnlock()

	if !ok {
		return nil, utils.NewNotFoundError("reset session", scope)
	}

	return decodeFields(scope, fields), nil
}

// Create stores a session under its scope, replacing any existing one.
func (s *MemorySessionStore) Create(ctx context.Context, session *models.ResetSession) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[session.Scope] = encodeFields(session)
	return nil
}

// Clear removes the session stored under the given scope.
func (s *MemorySessionStore) Clear(ctx context.Context, scope string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, scope)
	return nil
}

// Close stops the garbage collection routine.
func (s *MemorySessionStore) Close() {
	close(s.stop)
}

// gcRoutine periodically removes sessions well past their expiry window.
// The cutoff is a multiple of the session lifetime so that recently expired
// sessions stay observable.
func (s *MemorySessionStore) gcRoutine() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.gc()
		case <-s.stop:
			return
		}
	}
}

func (s *MemorySessionStore) gc() {
	cutoff := time.Now().Add(-time.Duration(constants.ResetSessionGCFactor) * s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for scope, fields := range s.items {
		createdAt, ok := models.DecodeTimestamp(fields[constants.StoreKeyTimestamp])
		if !ok || createdAt.Before(cutoff) {
			delete(s.items, scope)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("removed", removed).Msg("Collected stale reset sessions")
	}
}

// encodeFields renders a session as the three stored values.
func encodeFields(session *models.ResetSession) map[string]string {
	flag := ""
	if session.Active {
		flag = constants.SessionFlagActive
	}
	return map[string]string{
		constants.StoreKeySessionFlag: flag,
		constants.StoreKeyEmail:       session.Email,
		constants.StoreKeyTimestamp:   models.EncodeTimestamp(session.CreatedAt),
	}
}

// decodeFields reconstructs a session from its stored values. A missing or
// corrupt timestamp yields a zero CreatedAt, which callers treat as expired.
func decodeFields(scope string, fields map[string]string) *models.ResetSession {
	createdAt, _ := models.DecodeTimestamp(fields[constants.StoreKeyTimestamp])
	return &models.ResetSession{
		Scope:     scope,
		Active:    fields[constants.StoreKeySessionFlag] != "",
		Email:     fields[constants.StoreKeyEmail],
		CreatedAt: createdAt,
	}
}
