package repository

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/UnknownOlympus/iris/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Listener opens a LISTEN session on a dedicated connection.
type Listener interface {
	Listen(ctx context.Context, channel string) (Notifications, error)
}

// Notifications is one LISTEN session. Release must be called when done.
type Notifications interface {
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Release()
}

// NewDatabase creates a new PostgreSQL database connection pool using the provided configuration.
func NewDatabase(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	var (
		ctxTimeout = 5 * time.Second
		idleTime   = 30 * time.Second
		hcPeriod   = 30 * time.Second
	)
	var err error

	poolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// one connection is held by every live subscription
	poolConfig.MinConns = 3
	poolConfig.MaxConnIdleTime = idleTime
	poolConfig.HealthCheckPeriod = hcPeriod

	ctx, cancel := context.WithTimeout(context.Background(), ctxTimeout)
	defer cancel()

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection to PostgreSQL: %w", err)
	}

	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL DB: %w", err)
	}

	return dbpool, nil
}

// DSN builds the connection URL for cfg.
func DSN(cfg config.PostgresConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		net.JoinHostPort(cfg.Host, cfg.Port),
		cfg.Dbname,
	)
}

// PoolListener runs LISTEN sessions on connections taken from a pool.
type PoolListener struct {
	pool *pgxpool.Pool
}

func NewPoolListener(pool *pgxpool.Pool) *PoolListener {
	return &PoolListener{pool: pool}
}

// Listen acquires a connection and issues LISTEN on channel.
func (l *PoolListener) Listen(ctx context.Context, channel string) (Notifications, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listen connection: %w", err)
	}

	if _, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to listen on %s: %w", channel, err)
	}

	return &poolNotifications{conn: conn}, nil
}

type poolNotifications struct {
	conn *pgxpool.Conn
}

func (n *poolNotifications) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	return n.conn.Conn().WaitForNotification(ctx) //nolint:wrapcheck // caller wraps
}

// Release closes the connection instead of returning it, so no pooled connection stays subscribed.
func (n *poolNotifications) Release() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_ = n.conn.Hijack().Close(ctx)
}
