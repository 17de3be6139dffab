package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/sirupsen/logrus"
)

// PgxStore keeps entries in PostgreSQL through a pgx connection pool.
type PgxStore struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

// PgxOptions tunes the pool. Logger receives SQL traces when LogSQL is set.
type PgxOptions struct {
	MaxConns int32
	LogSQL   bool
	Logger   logrus.FieldLogger
}

// NewPgxStore creates a pgx connection pool and ensures the kv_entries table exists.
func NewPgxStore(ctx context.Context, dsn string, opts PgxOptions) (*PgxStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.MaxConns = 10
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}

	if opts.LogSQL && opts.Logger != nil {
		logger := opts.Logger.WithField("component", "pgx")
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger: tracelog.LoggerFunc(func(_ context.Context, lvl tracelog.LogLevel, msg string, data map[string]any) {
				logger.WithFields(logrus.Fields(data)).WithField("pgx_level", lvl.String()).Debug(msg)
			}),
			LogLevel: tracelog.LogLevelTrace,
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := pool.Exec(connectCtx, kvTableDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create kv_entries: %w", err)
	}

	return &PgxStore{pool: pool, clock: time.Now}, nil
}

const pgUpsertQuery = `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`

func (s *PgxStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, "SELECT entry_value FROM kv_entries WHERE entry_key = $1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PgxStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.pool.Exec(ctx, pgUpsertQuery, key, value, s.clock().UTC()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *PgxStore) SetMany(ctx context.Context, entries map[string]string) error {
	now := s.clock().UTC()
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for key, value := range entries {
			batch.Queue(pgUpsertQuery, key, value, now)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("set many: %w", err)
		}
		return nil
	})
}

func (s *PgxStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, "DELETE FROM kv_entries WHERE entry_key = ANY($1)", keys); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func (s *PgxStore) Close() error {
	s.pool.Close()
	return nil
}
