package store

import (
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string
	Role    string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures Postgres
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures ClickHouse
type CHConfig struct {
	Enabled bool
	URL     string
}

// RedisConfig configures Redis
type RedisConfig struct {
	Enabled bool
	URL     string
	Addr    string
	DB      int
}

// ConfigFromEnv reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_*.
// A backend is enabled when its URL (or, for redis, ADDR) is set, unless
// requirePG forces Postgres on, in which case a missing DBURL panics.
func ConfigFromEnv(root config.Conf, role string, requirePG bool) Config {
	pgc := root.Prefix("SERVICE_PGSQL_")
	chc := root.Prefix("SERVICE_CLICKHOUSE_")
	rc := root.Prefix("SERVICE_REDIS_")

	pgURL := pgc.MayString("DBURL", "")
	if requirePG {
		pgURL = pgc.MustString("DBURL")
	}
	chURL := chc.MayString("DBURL", "")
	rURL, rAddr := rc.MayString("URL", ""), rc.MayString("ADDR", "")

	return Config{
		AppName: root.MayString("APP_NAME", "snapverse"),
		Role:    role,
		PG: PGConfig{
			Enabled:        pgURL != "",
			URL:            pgURL,
			MaxConns:       int32(pgc.MayInt("MAX_CONNS", 8)),
			SlowQueryMs:    pgc.MayInt("SLOW_MS", 500),
			LogSQL:         pgc.MayBool("LOG_SQL", false),
			ConnectRetries: pgc.MayInt("CONNECT_RETRIES", 10),
			PingTimeout:    pgc.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled: chURL != "" && chc.MayBool("ENABLED", true),
			URL:     chURL,
		},
		RDS: RedisConfig{
			Enabled: (rURL != "" || rAddr != "") && rc.MayBool("ENABLED", true),
			URL:     rURL,
			Addr:    rAddr,
			DB:      rc.MayInt("DB", 0),
		},
	}
}
