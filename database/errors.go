package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ConnectionError indica que o pool não conseguiu fornecer uma conexão.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error (%s): %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError indica que o comando SQL falhou.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	if code := SQLState(e.Err); code != "" {
		return fmt.Sprintf("query error (%s, sqlstate %s): %v", e.Statement, code, e.Err)
	}
	return fmt.Sprintf("query error (%s): %v", e.Statement, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// SQLState devolve o código SQLSTATE do erro, vindo de lib/pq ou de pgx, ou "" se não houver.
func SQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
