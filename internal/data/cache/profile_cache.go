package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookstore-api/internal/dto/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProfileCache stores public user projections. Implementations never hold
// password hashes because they only ever see response.UserResponse.
type ProfileCache interface {
	Get(ctx context.Context, id uuid.UUID) (*response.UserResponse, bool, error)
	Set(ctx context.Context, user *response.UserResponse) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type redisProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewProfileCache returns a Redis-backed cache, or a no-op cache when rdb is nil.
func NewProfileCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) ProfileCache {
	if rdb == nil {
		return NewNoopProfileCache()
	}
	return &redisProfileCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With(zap.String("cache", "profile")),
	}
}

const (
	profileKeyPrefix = "user:profile:"
	staleKeyPrefix   = "user:profile-stale:"

	// staleWindow is how long a profile stays uncacheable after Invalidate.
	// A read that loaded the row before the write cannot repopulate it meanwhile.
	staleWindow = 5 * time.Second
)

func profileKey(id uuid.UUID) string {
	return profileKeyPrefix + id.String()
}

func staleKey(id string) string {
	return staleKeyPrefix + id
}

// setUnlessStale writes KEYS[1] only when no tombstone KEYS[2] exists.
// ARGV[2] is the TTL in milliseconds, 0 means no expiry.
var setUnlessStale = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
if tonumber(ARGV[2]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

func (c *redisProfileCache) Get(ctx context.Context, id uuid.UUID) (*response.UserResponse, bool, error) {
	raw, err := c.rdb.Get(ctx, profileKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get profile %s: %w", id.String(), err)
	}

	var user response.UserResponse
	if err := json.Unmarshal(raw, &user); err != nil {
		// drop the corrupt entry so the next read repopulates it
		c.log.Warn("Discarding undecodable profile", zap.String("user_id", id.String()), zap.Error(err))
		_ = c.rdb.Del(ctx, profileKey(id)).Err()
		return nil, false, nil
	}
	return &user, true, nil
}

func (c *redisProfileCache) Set(ctx context.Context, user *response.UserResponse) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", user.ID, err)
	}

	keys := []string{profileKeyPrefix + user.ID, staleKey(user.ID)}
	written, err := setUnlessStale.Run(ctx, c.rdb, keys, b, c.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("set profile %s: %w", user.ID, err)
	}
	if written == 0 {
		c.log.Debug("Skipped caching recently invalidated profile", zap.String("user_id", user.ID))
	}
	return nil
}

// Invalidate drops the cached profile and leaves a short-lived tombstone.
func (c *redisProfileCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, profileKey(id))
		pipe.Set(ctx, staleKey(id.String()), 1, staleWindow)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate profile %s: %w", id.String(), err)
	}
	return nil
}

type noopProfileCache struct{}

func NewNoopProfileCache() ProfileCache { return noopProfileCache{} }

func (noopProfileCache) Get(context.Context, uuid.UUID) (*response.UserResponse, bool, error) {
	return nil, false, nil
}

func (noopProfileCache) Set(context.Context, *response.UserResponse) error { return nil }

func (noopProfileCache) Invalidate(context.Context, uuid.UUID) error { return nil }
