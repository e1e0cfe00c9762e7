package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DB is the query surface repositories use. *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connector hands out the process-wide database handle.
type Connector interface {
	Conn(ctx context.Context) (DB, error)
}

// ManagerConfig configures the lazily created pool.
type ManagerConfig struct {
	DSN      string
	MaxConns int32
}

// connectTimeout bounds a shared first connection attempt.
const connectTimeout = 30 * time.Second

// Dialer opens a pool. Replaced in tests.
type Dialer func(ctx context.Context, cfg ManagerConfig) (*pgxpool.Pool, error)

// Manager creates the pgx pool on first use and returns the same pool afterwards.
// Concurrent first callers share a single in-flight connection attempt.
type Manager struct {
	cfg    ManagerConfig
	dial   Dialer
	logger *zap.Logger

	mu    sync.RWMutex
	pool  *pgxpool.Pool
	group singleflight.Group
}

// NewManager returns a manager; no connection is made until Conn is called.
func NewManager(cfg ManagerConfig, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{cfg: cfg, dial: NewPostgresPool, logger: logger}
}

// WithDialer overrides how the pool is opened.
func (m *Manager) WithDialer(d Dialer) *Manager {
	m.dial = d
	return m
}

// Conn returns the shared pool, connecting on first use. A failed attempt is
// not memoized, so the next call tries again.
func (m *Manager) Conn(ctx context.Context) (DB, error) {
	pool, err := m.Pool(ctx)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// Pool is Conn with the concrete pool type, for migrations and shutdown.
func (m *Manager) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	m.mu.RLock()
	pool := m.pool
	m.mu.RUnlock()
	if pool != nil {
		return pool, nil
	}

	ch := m.group.DoChan("connect", func() (interface{}, error) {
		m.mu.RLock()
		existing := m.pool
		m.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}
		// Outlives any single caller's cancellation; bounded by connectTimeout.
		dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), connectTimeout)
		defer cancel()
		p, err := m.dial(dialCtx, m.cfg)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.pool = p
		m.mu.Unlock()
		m.logger.Info("PostgreSQL connection pool established", zap.Int32("max_conns", m.cfg.MaxConns))
		return p, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*pgxpool.Pool), nil
	}
}

// Close closes the pool if one was opened.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
	}
}

// NewPostgresPool creates a pgx connection pool for PostgreSQL.
func NewPostgresPool(ctx context.Context, cfg ManagerConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if cfg.MaxConns > 0 {
		config.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
