// Package productrepo persists products and their stock ledger.
package productrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
	"github.com/ariefcatur/go-stock-orders/internal/postgres"
)

// price travels as text so NUMERIC round-trips exactly into decimal.Decimal.
const columns = `id, name, description, price::text AS price, stock, created_at, updated_at`

type Repo struct{ db postgres.Querier }

func New(db postgres.Querier) *Repo { return &Repo{db: db} }

type row struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       string    `db:"price"`
	Stock       int       `db:"stock"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r row) toDomain() (domain.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d price %q: %w", r.ID, r.Price, err)
	}
	return domain.Product{
		ID: r.ID, Name: r.Name, Description: r.Description, Price: price,
		Stock: r.Stock, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}, nil
}

func (r *Repo) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	return r.get(ctx, `SELECT `+columns+` FROM products WHERE id=$1`, id)
}

// FindByIDForUpdate locks the product row until the surrounding transaction
// ends. Concurrent order operations on the same product serialize here.
func (r *Repo) FindByIDForUpdate(ctx context.Context, id int64) (domain.Product, error) {
	return r.get(ctx, `SELECT `+columns+` FROM products WHERE id=$1 FOR UPDATE`, id)
}

func (r *Repo) List(ctx context.Context) ([]domain.Product, error) {
	var rows []row
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, `SELECT `+columns+` FROM products ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, rw := range rows {
		p, err := rw.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *Repo) Add(ctx context.Context, p domain.Product) (domain.Product, error) {
	created, err := r.get(ctx, `
		INSERT INTO products(name, description, price, stock)
		VALUES ($1,$2,$3::numeric,$4)
		RETURNING `+columns,
		p.Name, p.Description, p.Price.String(), p.Stock)
	if err != nil {
		return domain.Product{}, err
	}
	if err := postgres.Track(ctx, domain.EntityChange{
		Table: domain.TableProducts, Action: domain.AuditAdded, EntityID: created.ID,
		After: created.AuditFields(),
	}); err != nil {
		return domain.Product{}, err
	}
	return created, nil
}

// UpdateDetails rewrites name, description and price. Stock is left alone.
func (r *Repo) UpdateDetails(ctx context.Context, p domain.Product) (domain.Product, error) {
	before, err := r.FindByIDForUpdate(ctx, p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	updated, err := r.get(ctx, `
		UPDATE products SET name=$2, description=$3, price=$4::numeric, updated_at=now()
		WHERE id=$1
		RETURNING `+columns,
		p.ID, p.Name, p.Description, p.Price.String())
	if err != nil {
		return domain.Product{}, err
	}
	return updated, track(ctx, before, updated)
}

// SetStock writes the new ledger balance. Callers validate it first.
func (r *Repo) SetStock(ctx context.Context, id int64, stock int) (domain.Product, error) {
	before, err := r.FindByIDForUpdate(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	updated, err := r.get(ctx, `
		UPDATE products SET stock=$2, updated_at=now()
		WHERE id=$1
		RETURNING `+columns,
		id, stock)
	if err != nil {
		return domain.Product{}, err
	}
	return updated, track(ctx, before, updated)
}

func (r *Repo) Remove(ctx context.Context, id int64) error {
	q := postgres.QuerierFromCtx(ctx, r.db)
	rw, err := scanRow(q.QueryRow(ctx, `DELETE FROM products WHERE id=$1 RETURNING `+columns, id))
	if err != nil {
		return postgres.MapDeleteError(err, "product", id)
	}
	removed, err := rw.toDomain()
	if err != nil {
		return err
	}
	return postgres.Track(ctx, domain.EntityChange{
		Table: domain.TableProducts, Action: domain.AuditDeleted, EntityID: id,
		Before: removed.AuditFields(),
	})
}

func track(ctx context.Context, before, after domain.Product) error {
	return postgres.Track(ctx, domain.EntityChange{
		Table: domain.TableProducts, Action: domain.AuditModified, EntityID: after.ID,
		Before: before.AuditFields(), After: after.AuditFields(),
	})
}

func (r *Repo) get(ctx context.Context, sql string, args ...any) (domain.Product, error) {
	var id int64
	if len(args) > 0 {
		id, _ = args[0].(int64)
	}
	rw, err := scanRow(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.Product{}, postgres.MapError(err, "product", id)
	}
	return rw.toDomain()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(s rowScanner) (row, error) {
	var rw row
	err := s.Scan(&rw.ID, &rw.Name, &rw.Description, &rw.Price, &rw.Stock, &rw.CreatedAt, &rw.UpdatedAt)
	return rw, err
}
