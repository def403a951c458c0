package locker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares locks between service instances. A lock expires after
// TTL so a crashed holder cannot block the key forever. The lease is not
// renewed: a critical section must finish within TTL, otherwise another
// instance may take the key while it is still running.
type RedisLocker struct {
	rdb        *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
	prefix     string
	log        *zap.Logger
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl, retryDelay: 25 * time.Millisecond, prefix: "lock:", log: log}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}

	return l.releaser(key, token, time.Now()), nil
}

func (l *RedisLocker) releaser(key, token string, acquired time.Time) func() {
	var once sync.Once
	return func() { once.Do(func() { l.release(key, token, acquired) }) }
}

func (l *RedisLocker) release(key, token string, acquired time.Time) {
	// Release with a fresh context so a cancelled request still unlocks.
	releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	deleted, err := releaseScript.Run(releaseCtx, l.rdb, []string{l.prefix + key}, token).Int()
	switch {
	case err != nil:
		l.log.Error("failed to release lock, key stays held until its TTL",
			zap.String("key", key),
			zap.Duration("ttl", l.ttl),
			zap.Error(err),
		)
	case deleted == 0:
		l.log.Warn("lock expired before release",
			zap.String("key", key),
			zap.Duration("held", time.Since(acquired)),
			zap.Duration("ttl", l.ttl),
		)
	}
}
