package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// defaultCategory is the rate applied when no category-specific rate is set.
const defaultCategory = "default"

// maxIdle is how long a limiter may go unused before cleanup evicts it.
const maxIdle = time.Hour

// Store manages rate limiters for multiple clients.
// Limiters are keyed by client identity and category so a client throttled
// on one endpoint group keeps an independent budget on another.
type Store struct {
	// limiters maps client+category keys to their rate limiters
	limiters map[string]*Limiter

	// rates defines different rate limits for different endpoint categories
	rates map[string]Rate

	// mu protects concurrent access to the limiters and rates maps
	mu sync.RWMutex

	// cleanup interval for removing idle limiters
	cleanupInterval time.Duration
}

// NewStore creates a new store for managing rate limiters.
//
// Parameters:
//   - defaultRate: The default rate limit for clients
//   - cleanupInterval: How often to run cleanup of idle limiters
//
// Returns:
//   - A configured limiter store
func NewStore(defaultRate Rate, cleanupInterval time.Duration) *Store {
	store := &Store{
		limiters:        make(map[string]*Limiter),
		rates:           make(map[string]Rate),
		cleanupInterval: cleanupInterval,
	}

	store.rates[defaultCategory] = defaultRate

	// Start cleanup routine
	go store.cleanupRoutine()

	return store
}

// GetLimiter returns a rate limiter for the specified client and category.
// If a limiter doesn't exist yet, a new one is created with the category's
// rate, falling back to the default rate for unknown categories.
//
// Parameters:
//   - clientID: The unique identifier for the client (e.g., IP address)
//   - category: Category for different rate limits (e.g., "api", "submit")
//
// Returns:
//   - A rate limiter for the client and category
func (s *Store) GetLimiter(clientID string, category string) *Limiter {
	key := clientID + ":" + category

	s.mu.RLock()
	limiter, exists := s.limiters[key]
	s.mu.RUnlock()

	if exists {
		return limiter
	}

	// Get the appropriate rate for this category
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have created the limiter while the lock was
	// released
	if limiter, exists = s.limiters[key]; exists {
		return limiter
	}

	rate, ok := s.rates[category]
	if !ok {
		rate = s.rates[defaultCategory]
	}

	limiter = NewLimiter(rate.RequestsPerSecond, rate.Burst)
	s.limiters[key] = limiter

	return limiter
}

// SetRate sets a rate limit for a specific category.
//
// Parameters:
//   - category: The category name (e.g., "api", "submit")
//   - rate: The rate configuration to apply
func (s *Store) SetRate(category string, rate Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[category] = rate
}

// cleanupRoutine periodically removes idle limiters to prevent memory leaks.
// This runs in a separate goroutine.
func (s *Store) cleanupRoutine() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

// cleanup removes limiters that have been idle for longer than maxIdle.
// This helps prevent memory leaks from many one-time clients.
func (s *Store) cleanup() {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, limiter := range s.limiters {
		if limiter.idleSince().Before(cutoff) {
			delete(s.limiters, key)
			evicted++
		}
	}

	if evicted > 0 {
		log.Debug().Int("evicted", evicted).Msg("Evicted idle rate limiters")
	}
}
