// Package orderrepo persists orders.
package orderrepo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
	"github.com/ariefcatur/go-stock-orders/internal/postgres"
)

const columns = `id, name, description, address, payment_method, quantity, order_date, user_id, product_id`

type Repo struct{ db postgres.Querier }

func New(db postgres.Querier) *Repo { return &Repo{db: db} }

func (r *Repo) FindByID(ctx context.Context, id int64) (domain.Order, error) {
	return r.get(ctx, `SELECT `+columns+` FROM orders WHERE id=$1`, id)
}

// FindByIDForUpdate locks the order row so its quantity cannot move under
// a concurrent update of the same order.
func (r *Repo) FindByIDForUpdate(ctx context.Context, id int64) (domain.Order, error) {
	return r.get(ctx, `SELECT `+columns+` FROM orders WHERE id=$1 FOR UPDATE`, id)
}

func (r *Repo) List(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &out, `SELECT `+columns+` FROM orders ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for i := range out {
		out[i].OrderDate = out[i].OrderDate.UTC()
	}
	return out, nil
}

func (r *Repo) Add(ctx context.Context, o domain.Order) (domain.Order, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)
	created, err := scan(q.QueryRow(ctx, `
		INSERT INTO orders(name, description, address, payment_method, quantity, order_date, user_id, product_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+columns,
		o.Name, o.Description, o.Address, string(o.PaymentMethod), o.Quantity, o.OrderDate, o.UserID, o.ProductID))
	if err != nil {
		return domain.Order{}, postgres.MapError(err, "order", 0)
	}
	if err := postgres.Track(ctx, domain.EntityChange{
		Table: domain.TableOrders, Action: domain.AuditAdded, EntityID: created.ID,
		After: created.AuditFields(),
	}); err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

// Update rewrites the mutable fields. OrderDate, UserID and ProductID never change.
func (r *Repo) Update(ctx context.Context, o domain.Order) (domain.Order, error) {
	before, err := r.FindByIDForUpdate(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	updated, err := r.get(ctx, `
		UPDATE orders SET name=$2, description=$3, address=$4, payment_method=$5, quantity=$6
		WHERE id=$1
		RETURNING `+columns,
		o.ID, o.Name, o.Description, o.Address, string(o.PaymentMethod), o.Quantity)
	if err != nil {
		return domain.Order{}, err
	}
	if err := postgres.Track(ctx, domain.EntityChange{
		Table: domain.TableOrders, Action: domain.AuditModified, EntityID: o.ID,
		Before: before.AuditFields(), After: updated.AuditFields(),
	}); err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

func (r *Repo) Remove(ctx context.Context, id int64) error {
	q := postgres.QuerierFromCtx(ctx, r.db)
	removed, err := scan(q.QueryRow(ctx, `DELETE FROM orders WHERE id=$1 RETURNING `+columns, id))
	if err != nil {
		return postgres.MapDeleteError(err, "order", id)
	}
	return postgres.Track(ctx, domain.EntityChange{
		Table: domain.TableOrders, Action: domain.AuditDeleted, EntityID: id,
		Before: removed.AuditFields(),
	})
}

func (r *Repo) get(ctx context.Context, sql string, args ...any) (domain.Order, error) {
	var id int64
	if len(args) > 0 {
		id, _ = args[0].(int64)
	}
	o, err := scan(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.Order{}, postgres.MapError(err, "order", id)
	}
	return o, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scan(row rowScanner) (domain.Order, error) {
	var (
		o  domain.Order
		pm string
	)
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Address, &pm, &o.Quantity, &o.OrderDate, &o.UserID, &o.ProductID)
	o.PaymentMethod = domain.PaymentMethod(pm)
	o.OrderDate = o.OrderDate.UTC()
	return o, err
}
