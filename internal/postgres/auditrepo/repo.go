// Package auditrepo implements append-only storage of audit logs.
package auditrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
	"github.com/ariefcatur/go-stock-orders/internal/postgres"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Filter narrows a listing. Zero fields are ignored.
type Filter struct {
	Table    string
	EntityID string
	From     time.Time
	To       time.Time
}

type Repo struct{ db postgres.Querier }

func New(db postgres.Querier) *Repo { return &Repo{db: db} }

// Insert appends records using the current unit of work when there is one.
func (r *Repo) Insert(ctx context.Context, logs ...domain.AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	ins := psql.Insert(domain.TableAuditLogs).
		Columns("table_name", "action", "entity_id", "old_values", "new_values", "changed_at")
	for _, l := range logs {
		ins = ins.Values(l.TableName, string(l.Action), l.EntityID, nullJSON(l.OldValues), nullJSON(l.NewValues), l.ChangedAt)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert audit logs: %w", err)
	}
	return nil
}

// List returns matching records, newest first.
func (r *Repo) List(ctx context.Context, f Filter) ([]domain.AuditLog, error) {
	sel := psql.Select("id", "table_name", "action", "entity_id", "old_values", "new_values", "changed_at").
		From(domain.TableAuditLogs).
		OrderBy("changed_at DESC", "id DESC")
	if f.Table != "" {
		sel = sel.Where(sq.Eq{"table_name": f.Table})
	}
	if f.EntityID != "" {
		sel = sel.Where(sq.Eq{"entity_id": f.EntityID})
	}
	if !f.From.IsZero() {
		sel = sel.Where(sq.GtOrEq{"changed_at": f.From})
	}
	if !f.To.IsZero() {
		sel = sel.Where(sq.LtOrEq{"changed_at": f.To})
	}

	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}
	var out []domain.AuditLog
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return out, nil
}

// nullJSON keeps absent maps as SQL NULL instead of the JSON literal null.
func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
