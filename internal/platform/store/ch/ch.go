// Package ch is a thin ClickHouse client over clickhouse-go's native protocol
package ch

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the connection. URL is a clickhouse:// DSN.
type Config struct {
	URL        string
	ClientName string
	ClientRole string
}

// Rows is the iteration surface the store adapter consumes
type Rows = driver.Rows

// CH wraps a native connection
type CH struct {
	conn driver.Conn
}

var openConn = clickhouse.Open

var ident = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Open parses the DSN, stamps client info and pings the server
func Open(ctx context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("clickhouse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientRole)
	conn, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	return &CH{conn: conn}, nil
}

// Insert appends rows to table in a single native batch. Every row must have
// one value per column.
func (c *CH) Insert(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := insertStmt(table, columns)
	if err != nil {
		return err
	}
	b, err := c.conn.PrepareBatch(ctx, stmt)
	if err != nil {
		return err
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			_ = b.Abort()
			return fmt.Errorf("clickhouse insert %s: row %d has %d values, want %d", table, i, len(r), len(columns))
		}
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return err
		}
	}
	return b.Send()
}

// Query runs a read statement
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// Ping checks the connection
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes the connection
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func insertStmt(table string, columns []string) (string, error) {
	if !ident.MatchString(table) {
		return "", fmt.Errorf("clickhouse: invalid table name %q", table)
	}
	if len(columns) == 0 {
		return "", errors.New("clickhouse: insert needs at least one column")
	}
	for _, c := range columns {
		if !ident.MatchString(c) || strings.Contains(c, ".") {
			return "", fmt.Errorf("clickhouse: invalid column name %q", c)
		}
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ")", nil
}
