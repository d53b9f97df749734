package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/models"
	"github.com/resetgate/resetgate/internal/utils"
)

// RedisSessionStore is a Redis-backed session store for multi-instance
// deployments. Each session is a hash holding the three stored values.
//
// The Redis key TTL is a multiple of the session lifetime. It is garbage
// collection only: a session must outlive its logical expiry so the
// validator can observe it as expired rather than missing.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore creates a new Redis-backed session store with the
// given session lifetime.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

// Get retrieves the session stored under the given scope.
func (s *RedisSessionStore) Get(ctx context.Context, scope string) (*models.ResetSession, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key(scope)).Result()
	if err != nil {
		return nil, utils.ParseError(err)
	}

	// HGetAll returns an empty map for a missing key
	if len(fields) == 0 {
		return nil, utils.NewNotFoundError("reset session", scope)
	}

	return decodeFields(scope, fields), nil
}

// Create stores a session under its scope, replacing any existing one.
func (s *RedisSessionStore) Create(ctx context.Context, session *models.ResetSession) error {
	key := s.key(session.Scope)
	fields := encodeFields(session)

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]interface{}{
		constants.StoreKeySessionFlag: fields[constants.StoreKeySessionFlag],
		constants.StoreKeyEmail:       fields[constants.StoreKeyEmail],
		constants.StoreKeyTimestamp:   fields[constants.StoreKeyTimestamp],
	})
	pipe.Expire(ctx, key, time.Duration(constants.ResetSessionGCFactor)*s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return utils.ParseError(err)
	}

	return nil
}

// Clear removes the session stored under the given scope.
func (s *RedisSessionStore) Clear(ctx context.Context, scope string) error {
	if err := s.rdb.Del(ctx, s.key(scope)).Err(); err != nil {
		return utils.ParseError(err)
	}
	return nil
}

func (s *RedisSessionStore) key(scope string) string {
	return constants.RedisSessionKeyPrefix + scope
}
