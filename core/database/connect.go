package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/m3rciful/pagerbot/core/logger"
)

const pingInterval = 2 * time.Second

// Connect waits for the server, opens a pooled sqlx handle and pings it.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	start := time.Now()
	if err := WaitForPostgres(ctx, cfg.DSN(), cfg.WaitTimeout(), pingInterval); err != nil {
		logConnect(slog.LevelError, cfg, time.Since(start), err)
		return nil, fmt.Errorf("db not ready: %w", err)
	}

	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		logConnect(slog.LevelError, cfg, time.Since(start), err)
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		logConnect(slog.LevelError, cfg, time.Since(start), err)
		return nil, fmt.Errorf("db ping: %w", err)
	}

	logConnect(slog.LevelInfo, cfg, time.Since(start), nil)
	return db, nil
}

func logConnect(level slog.Level, cfg Config, took time.Duration, err error) {
	attrs := []slog.Attr{
		slog.String("event", "db.connect"),
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.Name),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", logger.RoundMS(took)),
	}
	msg := "db connected"
	if err != nil {
		msg = "db connect failed"
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	logger.DB.LogAttrs(context.Background(), level, msg, attrs...)
}

// WaitForPostgres pings dsn every interval until it answers or timeout passes.
func WaitForPostgres(ctx context.Context, dsn string, timeout, interval time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var lastErr error
	for {
		if lastErr = db.PingContext(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		case <-time.After(interval):
		}
	}
}
