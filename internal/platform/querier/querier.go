package querier

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx so stores can
// run either standalone or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Beginner interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InTx runs fn in a transaction, committing when fn returns nil.
func InTx(ctx context.Context, db Beginner, fn func(q Querier) error) error {
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return fn(tx)
	})
}

// SQLSTATE codes mapped to domain errors by the stores.
const (
	CodeUniqueViolation   = "23505"
	CodeCheckViolation    = "23514"
	CodeInvalidTextFormat = "22P02"
)

// HasCode reports whether err wraps a PostgreSQL error with the given SQLSTATE.
func HasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// ViolatesCheck reports whether err is a violation of the named CHECK constraint.
func ViolatesCheck(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeCheckViolation && pgErr.ConstraintName == constraint
}

// NotFound reports a missing row. An id that is not a valid UUID cannot
// match any row either.
func NotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || HasCode(err, CodeInvalidTextFormat)
}
