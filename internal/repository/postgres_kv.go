package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/port"
)

// DefaultNotifyChannel is the LISTEN/NOTIFY channel key changes are published on.
const DefaultNotifyChannel = "kv_changes"

const (
	getEntrySQL = `SELECT entry_value FROM kv_entries WHERE entry_key = $1`

	upsertEntrySQL = `INSERT INTO kv_entries (entry_key, entry_value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (entry_key) DO UPDATE SET entry_value = EXCLUDED.entry_value, updated_at = NOW()`

	deleteEntrySQL = `DELETE FROM kv_entries WHERE entry_key = $1`

	notifySQL = `SELECT pg_notify($1, $2)`
)

type PostgresKV struct {
	q       querier
	pool    *pgxpool.Pool
	channel string
}

var (
	_ port.KVStore = (*PostgresKV)(nil)
	_ port.Watcher = (*PostgresKV)(nil)
)

func NewPostgresKV(pool *pgxpool.Pool, channel string) *PostgresKV {
	if channel == "" {
		channel = DefaultNotifyChannel
	}

	return &PostgresKV{
		q:       pool,
		pool:    pool,
		channel: channel,
	}
}

// NewPostgresKVWithTx writes through tx; notifications fire when tx commits.
// The returned store cannot Watch.
func NewPostgresKVWithTx(tx pgx.Tx, channel string) *PostgresKV {
	if channel == "" {
		channel = DefaultNotifyChannel
	}

	return &PostgresKV{
		q:       tx,
		pool:    nil, // use provided transaction instead
		channel: channel,
	}
}

func (s *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.q.QueryRow(ctx, getEntrySQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("q.QueryRow: %w", err)
	}

	return value, nil
}

func (s *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := withTx(ctx, s.pool, s.q, func(q querier) (struct{}, error) {
		if _, err := q.Exec(ctx, upsertEntrySQL, key, value); err != nil {
			return struct{}{}, fmt.Errorf("q.Exec upsert: %w", err)
		}
		return struct{}{}, s.publish(ctx, q, key)
	})

	return err
}

func (s *PostgresKV) Delete(ctx context.Context, key string) error {
	_, err := withTx(ctx, s.pool, s.q, func(q querier) (struct{}, error) {
		if _, err := q.Exec(ctx, deleteEntrySQL, key); err != nil {
			return struct{}{}, fmt.Errorf("q.Exec delete: %w", err)
		}
		return struct{}{}, s.publish(ctx, q, key)
	})

	return err
}

func (s *PostgresKV) Watch(ctx context.Context, fn func(key string)) error {
	if s.pool == nil {
		return port.ErrWatchUnsupported
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("pool.Acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.channel}.Sanitize()); err != nil {
		return fmt.Errorf("conn.Exec listen: %w", err)
	}

	defer func() {
		// a cancelled wait usually closes the connection; if not, do not hand
		// a listening connection back to the pool
		if !conn.Conn().IsClosed() {
			_, _ = conn.Exec(context.Background(), "UNLISTEN *")
		}
	}()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("conn.WaitForNotification: %w", err)
		}

		fn(notification.Payload)
	}
}

func (s *PostgresKV) publish(ctx context.Context, q querier, key string) error {
	if _, err := q.Exec(ctx, notifySQL, s.channel, key); err != nil {
		return fmt.Errorf("q.Exec notify: %w", err)
	}
	return nil
}
