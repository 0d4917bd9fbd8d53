package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	goredis "github.com/redis/go-redis/v9"

	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
)

// fakeTx is an in-memory TxRunner that records statements
type fakeTx struct {
	execs   []string
	txCalls int
	failTx  []error
	pingErr error
	closed  bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}
func (f *fakeTx) Query(context.Context, string, ...any) (Rows, error) { return &sliceRows{}, nil }
func (f *fakeTx) QueryRow(context.Context, string, ...any) Row      { return scalarRow{v: 3} }
func (f *fakeTx) Tx(ctx context.Context, fn func(RowQuerier) error) error {
	f.txCalls++
	if len(f.failTx) > 0 {
		err := f.failTx[0]
		f.failTx = f.failTx[1:]
		return err
	}
	return fn(f)
}
func (f *fakeTx) Ping(context.Context) error { return f.pingErr }
func (f *fakeTx) Close() error               { f.closed = true; return nil }

type scalarRow struct{ v int }

func (r scalarRow) Scan(dest ...any) error {
	*(dest[0].(*int)) = r.v
	return nil
}

type sliceRows struct {
	data [][]any
	i    int
	err  error
}

func (r *sliceRows) Next() bool { r.i++; return r.i <= len(r.data) }
func (r *sliceRows) Scan(dest ...any) error {
	for j, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.data[r.i-1][j].(string)
		case *int:
			*p = r.data[r.i-1][j].(int)
		}
	}
	return nil
}
func (r *sliceRows) Err() error        { return r.err }
func (r *sliceRows) Close()            {}
func (r *sliceRows) Columns() []string { return nil }

type rowsQuerier struct {
	fakeTx
	rows *sliceRows
}

func (q *rowsQuerier) Query(context.Context, string, ...any) (Rows, error) { return q.rows, nil }

func TestOpenNothingEnabled(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil || s.RDS != nil {
		t.Fatalf("no backend should be enabled: %+v", s)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenOptionError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Open(context.Background(), Config{}, func(*Store) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Open err = %v", err)
	}
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := Open(context.Background(), Config{RDS: RedisConfig{Enabled: true, Addr: mr.Addr()}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.RDS == nil {
		t.Fatalf("redis not opened")
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	_ = s.Close(context.Background())
}

func TestGuardJoinsFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	mr.Close()

	s := &Store{PG: &fakeTx{pingErr: errors.New("pg down")}, RDS: rc}
	err := s.Guard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pg: pg down") || !strings.Contains(err.Error(), "redis:") {
		t.Fatalf("Guard err = %v", err)
	}

	var nilStore *Store
	if nilStore.Guard(context.Background()) == nil {
		t.Fatalf("nil store should fail Guard")
	}
}

func TestCloseClosesPG(t *testing.T) {
	f := &fakeTx{}
	s := &Store{PG: f}
	if err := s.Close(context.Background()); err != nil || !f.closed {
		t.Fatalf("Close err=%v closed=%v", err, f.closed)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://u:p@db:5432/snap")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "12")
	t.Setenv("SERVICE_REDIS_ADDR", "cache:6379")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "clickhouse://ch:9000/default")
	t.Setenv("SERVICE_CLICKHOUSE_ENABLED", "false")

	cfg := ConfigFromEnv(config.New(), "api", true)
	if !cfg.PG.Enabled || cfg.PG.MaxConns != 12 || cfg.Role != "api" {
		t.Fatalf("pg = %+v", cfg.PG)
	}
	if cfg.CH.Enabled {
		t.Fatalf("clickhouse should be disabled by flag")
	}
	if !cfg.RDS.Enabled || cfg.RDS.Addr != "cache:6379" {
		t.Fatalf("redis = %+v", cfg.RDS)
	}
}

func TestManyAndScalar(t *testing.T) {
	q := &rowsQuerier{rows: &sliceRows{data: [][]any{{"p1", 1}, {"p2", 2}}}}
	type pair struct {
		id string
		n  int
	}
	got, err := Many(context.Background(), q, func(r Row) (pair, error) {
		var p pair
		return p, r.Scan(&p.id, &p.n)
	}, "SELECT id, n FROM x")
	if err != nil || len(got) != 2 || got[1].id != "p2" || got[1].n != 2 {
		t.Fatalf("Many = %+v %v", got, err)
	}

	n, err := Scalar[int](context.Background(), q, "SELECT count(*) FROM x")
	if err != nil || n != 3 {
		t.Fatalf("Scalar = %d %v", n, err)
	}
}

func TestRetryTx(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001"}
	f := &fakeTx{failTx: []error{serialization, serialization}}
	err := RetryTx(context.Background(), f, 3, func(q RowQuerier) error {
		_, err := q.Exec(context.Background(), "UPDATE posts SET x = 1")
		return err
	})
	if err != nil || f.txCalls != 3 || len(f.execs) != 1 {
		t.Fatalf("RetryTx err=%v calls=%d execs=%d", err, f.txCalls, len(f.execs))
	}

	f = &fakeTx{failTx: []error{&pgconn.PgError{Code: "23505"}}}
	if err := RetryTx(context.Background(), f, 3, func(RowQuerier) error { return nil }); err == nil || f.txCalls != 1 {
		t.Fatalf("non-retryable should fail fast: err=%v calls=%d", err, f.txCalls)
	}
}
