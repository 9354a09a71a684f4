package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"planning-api/config"
	"planning-api/utilities"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// Pool controla um conjunto limitado de conexões com o banco.
// Cada Acquire bem-sucedido deve ter exatamente um Release.
type Pool struct {
	db             *sql.DB
	size           int
	acquireTimeout time.Duration
}

// Open abre o pool com o driver configurado e testa a conexão.
func Open(ctx context.Context, cfg config.Database) (*Pool, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, &ConnectionError{Op: "open", Err: err}
	}

	pool := newPool(db, cfg.PoolSize, cfg.AcquireTimeout)

	if err := pool.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	utilities.LogInfo("Conectado ao banco %s em %s:%d (driver %s, pool de %d conexões)",
		cfg.DBName, cfg.Host, cfg.Port, cfg.Driver, cfg.PoolSize)
	return pool, nil
}

func newPool(db *sql.DB, size int, acquireTimeout time.Duration) *Pool {
	db.SetMaxOpenConns(size)
	db.SetMaxIdleConns(size)
	return &Pool{db: db, size: size, acquireTimeout: acquireTimeout}
}

// Acquire bloqueia até haver uma conexão livre, o contexto ser cancelado ou o
// tempo limite de aquisição (se configurado) expirar.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}

	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, &ConnectionError{Op: "acquire", Err: err}
	}
	return conn, nil
}

// Release devolve a conexão ao pool.
func (p *Pool) Release(conn *sql.Conn) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		utilities.LogDebug("Erro ao devolver conexão ao pool: %v", err)
	}
}

// WithConn executa fn com uma conexão do pool e a devolve em qualquer caminho de saída.
func (p *Pool) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(conn)

	return fn(conn)
}

func (p *Pool) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return &ConnectionError{Op: "ping", Err: err}
	}
	return nil
}

// InUse retorna quantas conexões estão emprestadas no momento.
func (p *Pool) InUse() int {
	return p.db.Stats().InUse
}

func (p *Pool) Size() int {
	return p.size
}

// EnsureSchema cria a tabela planning caso ainda não exista.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	return p.WithConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
			return &QueryError{Statement: "schema", Err: err}
		}
		utilities.LogInfo("Tabela planning verificada")
		return nil
	})
}

func (p *Pool) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("error closing pool: %w", err)
	}
	return nil
}
