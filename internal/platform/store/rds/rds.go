// Package rds opens a go-redis client for the shared caches
package rds

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config configures the client. URL, when set, wins over Addr and DB and
// accepts the redis:// and rediss:// forms.
type Config struct {
	URL          string
	Addr         string
	DB           int
	Password     string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	PoolSize     int
	ClientName   string
	PingAttempts int
}

// Options converts cfg to go-redis options
func Options(cfg Config) (*goredis.Options, error) {
	var opt *goredis.Options
	if cfg.URL != "" {
		o, err := goredis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		opt = o
	} else {
		if cfg.Addr == "" {
			return nil, fmt.Errorf("redis: either URL or Addr is required")
		}
		opt = &goredis.Options{Addr: cfg.Addr, DB: cfg.DB, Password: cfg.Password}
	}
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opt.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.ClientName != "" {
		opt.ClientName = cfg.ClientName
	}
	return opt, nil
}

// Open creates the client and waits for a PING to succeed
func Open(ctx context.Context, cfg Config) (*goredis.Client, error) {
	opt, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	c := goredis.NewClient(opt)

	attempts := cfg.PingAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := 100 * time.Millisecond
	for i := 1; ; i++ {
		err = c.Ping(ctx).Err()
		if err == nil {
			return c, nil
		}
		if i >= attempts || ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	_ = c.Close()
	return nil, fmt.Errorf("redis ping failed after %d attempts: %w", attempts, err)
}
