package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

// ErrNoUnitOfWork is returned when a write is staged outside RunInTx.
var ErrNoUnitOfWork = errors.New("postgres: write outside of a unit of work")

// Beginner is satisfied by *pgxpool.Pool and pgxmock pools.
type Beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// CommitHook runs inside the transaction after fn succeeded and before
// COMMIT. Returning an error rolls the whole unit of work back.
type CommitHook interface {
	BeforeCommit(ctx context.Context, changes []domain.EntityChange) error
}

type unitOfWork struct {
	tx      pgx.Tx
	changes []domain.EntityChange
}

type uowCtxKey struct{}

func uowFromCtx(ctx context.Context) (*unitOfWork, bool) {
	uow, ok := ctx.Value(uowCtxKey{}).(*unitOfWork)
	return uow, ok
}

// Track stages a before/after snapshot of a written row. Repositories call
// it for every insert, update and delete.
func Track(ctx context.Context, change domain.EntityChange) error {
	uow, ok := uowFromCtx(ctx)
	if !ok {
		return ErrNoUnitOfWork
	}
	uow.changes = append(uow.changes, change)
	return nil
}

// TxManager runs units of work. Isolation is Read Committed; callers that
// read-validate-write take row locks (SELECT ... FOR UPDATE) through the
// repositories.
type TxManager struct {
	db    Beginner
	hooks []CommitHook
}

func NewTxManager(db Beginner, hooks ...CommitHook) *TxManager {
	return &TxManager{db: db, hooks: hooks}
}

// RunInTx executes fn in a transaction. A RunInTx nested inside another
// joins the outer unit of work.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := uowFromCtx(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	uow := &unitOfWork{tx: tx}
	txCtx := context.WithValue(ctx, uowCtxKey{}, uow)

	if err := fn(txCtx); err != nil {
		return rollback(ctx, tx, err)
	}

	for _, h := range m.hooks {
		if err := h.BeforeCommit(txCtx, uow.changes); err != nil {
			return rollback(ctx, tx, fmt.Errorf("commit hook: %w", err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", classify(err))
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, cause)
	}
	return cause
}
