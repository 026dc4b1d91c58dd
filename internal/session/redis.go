package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultRedisTimeout = 5 * time.Second

// RedisConfig captures the settings for the session Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// ConnectRedis initialises a Redis client and validates connectivity with a ping.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore keeps the token server-side. The browser only holds a random
// session id. Key format: session:<id>
type RedisStore struct {
	client *redis.Client
	opts   CookieOptions
}

func NewRedisStore(client *redis.Client, opts CookieOptions) *RedisStore {
	return &RedisStore{client: client, opts: opts.withDefaults()}
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	b, err := bindingFrom(ctx)
	if err != nil {
		return "", err
	}

	id := b.cookie(s.opts.Name)
	if id == "" {
		return "", nil
	}

	token, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return token, nil
}

// Save issues a fresh session id on every login; the previous one, if any,
// is dropped.
func (s *RedisStore) Save(ctx context.Context, token string) error {
	b, err := bindingFrom(ctx)
	if err != nil {
		return err
	}

	if old := b.cookie(s.opts.Name); old != "" {
		if err := s.client.Del(ctx, s.key(old)).Err(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to delete previous session")
		}
	}

	id := uuid.NewString()
	if err := s.client.Set(ctx, s.key(id), token, s.opts.TTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	b.set(s.opts, id)
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	b, err := bindingFrom(ctx)
	if err != nil {
		return err
	}

	if id := b.cookie(s.opts.Name); id != "" {
		if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	b.set(s.opts, "")
	return nil
}

func (s *RedisStore) key(id string) string {
	return "session:" + id
}
