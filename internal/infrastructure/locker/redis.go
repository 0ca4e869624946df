package locker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "escrow:release:"

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker is an order-level advisory lock shared by every replica.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) Acquire(ctx context.Context, orderID string) (func(), error) {
	key := keyPrefix + orderID
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire release lock for %s: %w", orderID, err)
	}
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrReleaseInProgress)
	}

	return func() {
		// the payout call may have outlived ctx
		unlockCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := unlockScript.Run(unlockCtx, l.client, []string{key}, token).Err(); err != nil {
			slog.Warn("failed to release order lock", "order_id", orderID, "error", err)
		}
	}, nil
}

func MustConnectRedis(url string) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		panic(fmt.Sprintf("invalid redis url: %v", err))
	}
	return redis.NewClient(opts)
}
