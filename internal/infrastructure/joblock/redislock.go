// Package joblock provides a redis lock that keeps scheduled jobs from
// running concurrently across worker instances.
package joblock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rdfstore/internal/shared/logger"
)

// releaseScript deletes the lock only when it still holds our token, so a
// worker that overran its TTL cannot release a lock someone else took over.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLock is a best-effort distributed lock. The TTL bounds how long a
// crashed worker can block the next run.
type RedisLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	token  string
	logger logger.Interface
}

func NewRedisLock(client *redis.Client, key string, ttl time.Duration, logger logger.Interface) *RedisLock {
	return &RedisLock{
		client: client,
		key:    key,
		ttl:    ttl,
		logger: logger,
	}
}

// TryAcquire takes the lock if it is free. It returns false without error
// when another worker holds it.
func (l *RedisLock) TryAcquire(ctx context.Context) (bool, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return false, fmt.Errorf("failed to generate lock token: %w", err)
	}
	token := hex.EncodeToString(raw)

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire job lock: %w", err)
	}
	if !ok {
		return false, nil
	}

	l.token = token
	return true, nil
}

// Release frees the lock if this instance still owns it.
func (l *RedisLock) Release(ctx context.Context) {
	if l.token == "" {
		return
	}
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && err != redis.Nil {
		l.logger.Warnw("failed to release job lock", "key", l.key, "error", err)
	}
	l.token = ""
}
