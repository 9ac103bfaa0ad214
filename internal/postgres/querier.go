package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the common interface implemented by *pgxpool.Pool, pgx.Tx and
// pgxmock pools.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierFromCtx returns the transaction of the current unit of work if
// there is one, otherwise fallback.
func QuerierFromCtx(ctx context.Context, fallback Querier) Querier {
	if uow, ok := uowFromCtx(ctx); ok {
		return uow.tx
	}
	return fallback
}
