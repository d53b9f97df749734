package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter(t *testing.T) {
	t.Run("Limiter initialized with correct values", func(t *testing.T) {
		// Arrange
		rate := float64(10)
		burst := 5

		// Act
		limiter := NewLimiter(rate, burst)

		// Assert
		require.NotNil(t, limiter)
		assert.Equal(t, rate, limiter.rate)
		assert.Equal(t, float64(burst), limiter.capacity)
		assert.Equal(t, float64(burst), limiter.tokens)
		assert.NotZero(t, limiter.lastTime)
		assert.NotZero(t, limiter.lastAccess)
	})

	t.Run("Zero burst starts with an empty bucket", func(t *testing.T) {
		// Arrange
		limiter := NewLimiter(10, 0)

		// Act & Assert
		assert.False(t, limiter.Allow())
	})
}

func TestLimiter_Allow(t *testing.T) {
	t.Run("Allows up to burst requests immediately", func(t *testing.T) {
		// Arrange
		limiter := NewLimiter(1, 3)

		// Act & Assert
		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow(), "Fourth request should exceed the burst capacity")
	})

	t.Run("Tokens refill over time", func(t *testing.T) {
		// Arrange: a fast limiter so the test stays quick
		limiter := NewLimiter(100, 1)
		require.True(t, limiter.Allow())
		require.False(t, limiter.Allow())

		// Act: wait for at least one token to be refilled
		time.Sleep(20 * time.Millisecond)

		// Assert
		assert.True(t, limiter.Allow(), "A token should have been refilled")
	})

	t.Run("Concurrent access is safe", func(t *testing.T) {
		// Arrange
		limiter := NewLimiter(0, 100)
		allowed := 0
		var mu sync.Mutex
		var wg sync.WaitGroup

		// Act: more requests than the bucket holds
		for i := 0; i < 200; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow() {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		// Assert: exactly the burst capacity is admitted
		assert.Equal(t, 100, allowed)
	})
}

func TestLimiter_RetryAfter(t *testing.T) {
	t.Run("Zero when tokens are available", func(t *testing.T) {
		limiter := NewLimiter(1, 5)
		assert.Equal(t, time.Duration(0), limiter.RetryAfter())
	})

	t.Run("Positive when the bucket is empty", func(t *testing.T) {
		limiter := NewLimiter(1, 1)
		require.True(t, limiter.Allow())

		retryAfter := limiter.RetryAfter()
		assert.Greater(t, retryAfter, time.Duration(0))
		assert.LessOrEqual(t, retryAfter, time.Second+100*time.Millisecond)
	})

	t.Run("Zero rate never refills", func(t *testing.T) {
		limiter := NewLimiter(0, 1)
		require.True(t, limiter.Allow())
		assert.Equal(t, time.Duration(0), limiter.RetryAfter())
	})
}

func TestLimiter_ResetTokens(t *testing.T) {
	// Arrange
	limiter := NewLimiter(0, 2)
	require.True(t, limiter.Allow())
	require.True(t, limiter.Allow())
	require.False(t, limiter.Allow())

	// Act
	limiter.ResetTokens()

	// Assert
	assert.True(t, limiter.Allow(), "Reset should refill the bucket to capacity")
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())
}
