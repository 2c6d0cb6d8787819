package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

const (
	lockKeyPrefix  = "ladder:lock:"
	defaultLockTTL = 10 * time.Second
	maxRetries     = 40
)

// RedisLocker 멀티 인스턴스 배포용 Redis 분산 락
// SET NX + Lua 해제 방식; TTL이 있어 크래시한 보유자가 락을 영구 점유하지 못한다.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    defaultLockTTL,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, ladder string) (func(), error) {
	key := lockKeyPrefix + ladder
	token := uuid.NewString()

	for i := 0; i < maxRetries; i++ {
		// SET NX 명령으로 원자적 락 획득
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	return nil, ErrNotAcquired
}

// release 자신이 획득한 락만 해제 (Lua 스크립트)
func (l *RedisLocker) release(key, token string) {
	script := redis.NewScript(`
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := script.Run(ctx, l.client, []string{key}, token).Int()
	if err != nil {
		logger.Error("Failed to release ladder lock", "key", key, "error", err)
		return
	}
	if result == 0 {
		// TTL expired before release; the mutation may have raced another writer.
		logger.Warn("Ladder lock already expired at release", "key", key)
	}
}
