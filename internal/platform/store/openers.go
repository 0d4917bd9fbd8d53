package store

import (
	"context"
	"fmt"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/platform/store/ch"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store/pg"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store/rds"

	goredis "github.com/redis/go-redis/v9"
)

var sleep = time.Sleep

// openPG opens the pool and pings it with capped exponential backoff before
// handing out the adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	backoff := 150 * time.Millisecond
	var lastErr error
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Dur("backoff", backoff).Msg("postgres not ready")
		sleep(backoff)
		backoff = min(backoff*2, 2*time.Second)
	}
	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := ch.Open(ctx, ch.Config{URL: cfg.CH.URL, ClientName: cfg.AppName, ClientRole: cfg.Role})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openRDS(ctx context.Context, cfg Config) (goredis.UniversalClient, error) {
	name := cfg.AppName
	if cfg.Role != "" {
		name += "-" + cfg.Role
	}
	return rds.Open(ctx, rds.Config{
		URL:          cfg.RDS.URL,
		Addr:         cfg.RDS.Addr,
		DB:           cfg.RDS.DB,
		ClientName:   name,
		PingAttempts: 5,
	})
}
