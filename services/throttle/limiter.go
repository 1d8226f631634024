// Package throttle limits failed login attempts with Redis fixed-window counters.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrRateLimited is returned once an identifier or address has used up its attempts
	ErrRateLimited = errors.New("rate limited")

	// ErrRedisUnavailable wraps any Redis failure
	ErrRedisUnavailable = errors.New("redis unavailable")
)

// Config holds limiter tuning parameters
type Config struct {
	MaxLoginAttempts int
	Window           time.Duration
	EnableIPThrottle bool
	KeyPrefix        string
}

// Limiter counts failed logins per identifier (and optionally per client IP).
// A counter expires Window after its first failure.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a Limiter backed by the given Redis client
func New(client redis.UniversalClient, cfg Config) *Limiter {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "registration"
	}
	return &Limiter{
		redis:  client,
		config: cfg,
	}
}

// CheckLogin returns ErrRateLimited when the identifier or IP has reached
// MaxLoginAttempts failures in the current window.
func (l *Limiter) CheckLogin(ctx context.Context, identifier, ip string) error {
	if err := l.checkCounter(ctx, l.identifierKey(identifier)); err != nil {
		return err
	}
	if l.config.EnableIPThrottle && ip != "" {
		return l.checkCounter(ctx, l.ipKey(ip))
	}
	return nil
}

// IncrementLogin records a failed attempt
func (l *Limiter) IncrementLogin(ctx context.Context, identifier, ip string) error {
	if _, err := l.incrementWithTTL(ctx, l.identifierKey(identifier)); err != nil {
		return err
	}
	if l.config.EnableIPThrottle && ip != "" {
		if _, err := l.incrementWithTTL(ctx, l.ipKey(ip)); err != nil {
			return err
		}
	}
	return nil
}

// ResetLogin clears the identifier's counter after a successful login.
// The IP counter is left alone so one good account cannot launder an address.
func (l *Limiter) ResetLogin(ctx context.Context, identifier, ip string) error {
	if err := l.redis.Del(ctx, l.identifierKey(identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping checks the Redis connection
func (l *Limiter) Ping(ctx context.Context) error {
	if err := l.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *Limiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count >= int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}
	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// fixed window: the first failure starts the clock
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return count, nil
}

func (l *Limiter) identifierKey(identifier string) string {
	return l.config.KeyPrefix + ":login:id:" + strings.ToLower(strings.TrimSpace(identifier))
}

func (l *Limiter) ipKey(ip string) string {
	return l.config.KeyPrefix + ":login:ip:" + ip
}
