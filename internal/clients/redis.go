package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"arc-framework/seeder/internal/config"
	"arc-framework/seeder/internal/orchestrator"
)

const redisProbeName = "arc-sonic"

// releaseScript deletes the lock key only while it still holds our token, so
// a holder whose TTL expired cannot release a lock taken by another replica.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisConn is the interface used by RedisClient. It is implemented by the
// real go-redis client wrapper and by test doubles.
type redisConn interface {
	PingResult(ctx context.Context) (string, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)
	Close() error
}

// realRedisConn wraps a *redis.Client and adapts it to the redisConn
// interface. The wrapper exists so tests can inject a fake without needing to
// construct real *redis.Cmd values.
type realRedisConn struct {
	client *redis.Client
}

func (r *realRedisConn) PingResult(ctx context.Context) (string, error) {
	return r.client.Ping(ctx).Result()
}

func (r *realRedisConn) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, ttl).Result()
}

func (r *realRedisConn) CompareAndDelete(ctx context.Context, key, value string) (bool, error) {
	n, err := releaseScript.Run(ctx, r.client, []string{key}, value).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *realRedisConn) Close() error {
	return r.client.Close()
}

// RedisClient wraps a go-redis connection with a circuit breaker. It probes
// arc-sonic for health checks and holds the cross-replica seed lock.
type RedisClient struct {
	cfg  config.RedisConfig
	cb   *gobreaker.CircuitBreaker
	conn redisConn
}

// NewRedisClient creates a RedisClient. No connection is opened at construction
// time; a go-redis client is built per call.
func NewRedisClient(cfg config.RedisConfig, cb *gobreaker.CircuitBreaker) *RedisClient {
	return &RedisClient{
		cfg: cfg,
		cb:  cb,
	}
}

// open returns the injected connection, or a fresh go-redis client together
// with its closer.
func (c *RedisClient) open() (redisConn, func()) {
	if c.conn != nil {
		return c.conn, func() {}
	}
	conn := &realRedisConn{
		client: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port),
			Password: c.cfg.Password,
			DB:       c.cfg.DB,
		}),
	}
	return conn, func() { _ = conn.Close() }
}

// Probe sends a PING command to Redis and validates the PONG response. The call
// is wrapped in the circuit breaker; after 3 consecutive failures the breaker
// opens and subsequent calls return immediately with "circuit open".
func (c *RedisClient) Probe(ctx context.Context) orchestrator.ProbeResult {
	start := time.Now()

	_, err := c.cb.Execute(func() (any, error) {
		conn, closeFn := c.open()
		defer closeFn()

		val, err := conn.PingResult(ctx)
		if err != nil {
			return nil, fmt.Errorf("ping: %w", err)
		}
		if val != "PONG" {
			return nil, fmt.Errorf("unexpected PING response: %q", val)
		}
		return nil, nil
	})

	return probeResult(redisProbeName, start, err)
}

// Acquire tries to take the lock at key for ttl. ok is false when another
// holder owns the key. The returned release func deletes the key only if it
// still carries this holder's token.
func (c *RedisClient) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	token := uuid.NewString()

	res, err := c.cb.Execute(func() (any, error) {
		conn, closeFn := c.open()
		defer closeFn()

		ok, err := conn.SetNX(ctx, key, token, ttl)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
		return ok, nil
	})
	if err != nil {
		return nil, false, breakerErr(err)
	}

	if acquired, _ := res.(bool); !acquired {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		conn, closeFn := c.open()
		defer closeFn()

		if _, err := conn.CompareAndDelete(ctx, key, token); err != nil {
			return fmt.Errorf("release %s: %w", key, err)
		}
		return nil
	}

	return release, true, nil
}
