package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dweisser/cachepool"
	"github.com/dweisser/cachepool/codec"
)

// DefaultRedisPrefix namespaces this adapter's keys inside a shared Redis
// database. DeleteAll only touches keys under the prefix.
const DefaultRedisPrefix = "cachepool:"

// Redis is a Redis-backed adapter. Entries are codec-encoded envelopes;
// expiration is delegated to Redis TTLs. Unlike the in-process adapters,
// operations surface connection errors to the caller; the Pool degrades
// reads to misses on its own.
type Redis struct {
	rdb    *redis.Client
	codec  codec.Codec
	prefix string
}

// NewRedis creates a Redis adapter with the default prefix and JSON codec.
func NewRedis(addr, password string, db int) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	r, _ := NewRedisOn(rdb, DefaultRedisPrefix, codec.JSON{})
	return r
}

// NewRedisOn creates a Redis adapter on an existing client. A nil codec or
// client is a construction error.
func NewRedisOn(rdb *redis.Client, prefix string, c codec.Codec) (*Redis, error) {
	if rdb == nil {
		return nil, errors.New("storage: nil redis client")
	}
	if c == nil {
		return nil, errors.New("storage: nil codec")
	}
	return &Redis{rdb: rdb, codec: c, prefix: prefix}, nil
}

// Fetch retrieves the entry for key. A missing key is a miss, not an error.
func (r *Redis) Fetch(ctx context.Context, key string) (any, bool, error) {
	if err := cachepool.ValidateKey(key); err != nil {
		return nil, false, err
	}

	data, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	env, err := r.codec.Decode(data)
	if err != nil {
		return nil, false, err
	}
	if env.Expired(time.Now()) {
		// Redis TTL resolution is coarser than ours; drop the straggler.
		_ = r.rdb.Del(ctx, r.prefix+key).Err()
		return nil, false, nil
	}
	return env.Value, true, nil
}

// Store writes the entry for key with a TTL derived from expiresAt. A past
// expiresAt removes any existing entry instead of writing.
func (r *Redis) Store(ctx context.Context, key string, value any, expiresAt time.Time) error {
	if err := cachepool.ValidateKey(key); err != nil {
		return err
	}

	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return r.Delete(ctx, key)
		}
	}

	data, err := r.codec.Encode(codec.Envelope{Value: value, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.prefix+key, data, ttl).Err()
}

// Delete removes the entry for key. Removing an absent key succeeds.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := cachepool.ValidateKey(key); err != nil {
		return err
	}
	return r.rdb.Del(ctx, r.prefix+key).Err()
}

// DeleteAll removes every key under the adapter's prefix, leaving the rest
// of the database untouched.
func (r *Redis) DeleteAll(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Has reports whether an entry exists for key without reading its value.
func (r *Redis) Has(ctx context.Context, key string) (bool, error) {
	if err := cachepool.ValidateKey(key); err != nil {
		return false, err
	}
	n, err := r.rdb.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

var _ cachepool.Adapter = (*Redis)(nil)
