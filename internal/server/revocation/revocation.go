// Package revocation keeps a denylist of session token ids. It is only wired
// when a redis address is configured; tokens stay stateless otherwise.
package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked"

var ErrUnavailable = errors.New("revocation store unavailable")

// Revoker records and looks up revoked token ids.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisDenylist stores "revoked:<jti>" keys that expire together with the token.
type RedisDenylist struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewRedisDenylist(rdb redis.Cmdable) *RedisDenylist {
	return &RedisDenylist{rdb: rdb, now: time.Now}
}

// Dial connects to redis at addr and checks the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rdb, nil
}

func key(tokenID string) string {
	return keyPrefix + ":" + tokenID
}

// Revoke denylists tokenID until expiresAt. Already expired tokens are ignored.
func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("token id is empty")
	}

	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}

	if err := d.rdb.Set(ctx, key(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	n, err := d.rdb.Exists(ctx, key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n > 0, nil
}
