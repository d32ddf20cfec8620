package redisdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerly/ledgerly_backend/internal/core/ports"
	"github.com/ledgerly/ledgerly_backend/internal/platform/config"
)

// Client bundles the redis connection with a distributed lock client. Locks
// keep at most one worker on a given run or document across replicas.
type Client struct {
	RDB    *redis.Client
	Locker *redislock.Client
}

// New connects to redis and verifies the connection with a ping.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	return &Client{RDB: rdb, Locker: redislock.New(rdb)}, nil
}

var _ ports.Locker = (*Client)(nil)

// Obtain acquires a named lock for ttl, or returns ports.ErrLockNotObtained
// when another holder has it.
func (c *Client) Obtain(ctx context.Context, key string, ttl time.Duration) (ports.Lock, error) {
	lock, err := c.Locker.Obtain(ctx, key, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, ports.ErrLockNotObtained
		}
		return nil, err
	}
	return lock, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.RDB.Close()
}
