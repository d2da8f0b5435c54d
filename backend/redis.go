package backend

import (
	"context"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"time"
)

// DefaultSessionTTL is how long an idle session survives in redis.
const DefaultSessionTTL = 40 * time.Minute

type redisBackend struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

func (r *redisBackend) key(key string) string {
	return sessionPrefix + r.sessionID + ":" + key
}

// Read refreshes the session ttl, a read counts as activity.
func (r *redisBackend) Read(ctx context.Context, key string) ([]byte, error) {
	var cmd *redis.StringCmd
	if r.ttl > 0 {
		cmd = r.client.GetEx(ctx, r.key(key), r.ttl)
	} else {
		cmd = r.client.Get(ctx, r.key(key))
	}
	blob, err := cmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.WithMessagef(err, "failed to read %s", r.key(key))
	}
	return blob, nil
}

func (r *redisBackend) Write(ctx context.Context, key string, blob []byte) error {
	if err := r.client.Set(ctx, r.key(key), blob, r.ttl).Err(); err != nil {
		return errors.WithMessagef(err, "failed to write %s", r.key(key))
	}
	return nil
}

func (r *redisBackend) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return errors.WithMessagef(err, "failed to delete %s", r.key(key))
	}
	return nil
}

func (r *redisBackend) Close() error {
	return r.client.Close()
}

// NewRedisBackend connects to url (redis://...) and checks the connection once.
func NewRedisBackend(ctx context.Context, url string, sessionID string, ttl time.Duration) (Backend, error) {
	if sessionID == "" {
		return nil, errors.New("session id can't be empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.WithMessage(err, "failed to connect to redis")
	}
	return &redisBackend{client: client, sessionID: sessionID, ttl: ttl}, nil
}
