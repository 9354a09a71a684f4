package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"planning-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// setupTestPool abre um pool contra o banco de testes ou pula o teste se ele não estiver disponível.
// TEST_DATABASE_URL tem prioridade; sem ela valem as variáveis DB_* e os padrões de config.
func setupTestPool(t *testing.T, size int, acquireTimeout time.Duration) *Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var pool *Pool
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		db, err := sql.Open(config.DriverPostgres, url)
		if err != nil {
			t.Skipf("Skipping test: database not available: %v", err)
		}
		pool = newPool(db, size, acquireTimeout)
		if err := pool.Ping(ctx); err != nil {
			db.Close()
			t.Skipf("Skipping test: database ping failed: %v", err)
		}
	} else {
		cfg, err := config.Load("")
		if err != nil {
			t.Skipf("Skipping test: invalid database config: %v", err)
		}
		cfg.Database.PoolSize = size
		cfg.Database.AcquireTimeout = acquireTimeout
		pool, err = Open(ctx, cfg.Database)
		if err != nil {
			t.Skipf("Skipping test: database not available: %v", err)
		}
	}
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, pool.EnsureSchema(ctx))
	return pool
}

func TestPool_AcquireRelease(t *testing.T) {
	pool := setupTestPool(t, 5, 0)
	ctx := context.Background()

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pool.InUse())

	pool.Release(conn)
	assert.Equal(t, 0, pool.InUse())

	// Release de nil não faz nada
	pool.Release(nil)
	assert.Equal(t, 5, pool.Size())
}

func TestPool_WithConnReleasesOnError(t *testing.T) {
	pool := setupTestPool(t, 2, 0)
	ctx := context.Background()

	boom := errors.New("boom")
	err := pool.WithConn(ctx, func(conn *sql.Conn) error {
		assert.Equal(t, 1, pool.InUse())
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, pool.InUse())
}

func TestPool_AcquireTimeout(t *testing.T) {
	pool := setupTestPool(t, 1, 50*time.Millisecond)
	ctx := context.Background()

	held, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer pool.Release(held)

	_, err = pool.Acquire(ctx)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "acquire", connErr.Op)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPool_ConcurrentRequestsQueue(t *testing.T) {
	const size = 2
	pool := setupTestPool(t, size, 0)
	ctx := context.Background()

	var active, peak atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			return pool.WithConn(gctx, func(conn *sql.Conn) error {
				n := active.Add(1)
				defer active.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				_, err := conn.ExecContext(gctx, "SELECT 1")
				return err
			})
		})
	}

	require.NoError(t, g.Wait())
	assert.LessOrEqual(t, peak.Load(), int32(size))
	assert.Equal(t, 0, pool.InUse())
}

func TestOpen_UnreachableDatabase(t *testing.T) {
	cfg := config.Default().Database
	cfg.Host = "127.0.0.1"
	cfg.Port = 1

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, cfg)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "ping", connErr.Op)
}
