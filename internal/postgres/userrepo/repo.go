// Package userrepo persists users.
package userrepo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
	"github.com/ariefcatur/go-stock-orders/internal/postgres"
)

const columns = `id, name, last_name, email, age, address, created_at`

type Repo struct{ db postgres.Querier }

func New(db postgres.Querier) *Repo { return &Repo{db: db} }

func (r *Repo) FindByID(ctx context.Context, id int64) (domain.User, error) {
	return r.get(ctx, `SELECT `+columns+` FROM users WHERE id=$1`, id)
}

func (r *Repo) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &out, `SELECT `+columns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *Repo) Add(ctx context.Context, u domain.User) (domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)
	created, err := scan(q.QueryRow(ctx, `
		INSERT INTO users(name, last_name, email, age, address)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+columns,
		u.Name, u.LastName, u.Email, u.Age, u.Address))
	if err != nil {
		return domain.User{}, postgres.MapError(err, "user", 0)
	}
	if err := postgres.Track(ctx, domain.EntityChange{
		Table: domain.TableUsers, Action: domain.AuditAdded, EntityID: created.ID,
		After: created.AuditFields(),
	}); err != nil {
		return domain.User{}, err
	}
	return created, nil
}

func (r *Repo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	before, err := r.get(ctx, `SELECT `+columns+` FROM users WHERE id=$1 FOR UPDATE`, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	q := postgres.QuerierFromCtx(ctx, r.db)
	updated, err := scan(q.QueryRow(ctx, `
		UPDATE users SET name=$2, last_name=$3, email=$4, age=$5, address=$6
		WHERE id=$1
		RETURNING `+columns,
		u.ID, u.Name, u.LastName, u.Email, u.Age, u.Address))
	if err != nil {
		return domain.User{}, postgres.MapError(err, "user", u.ID)
	}
	if err := postgres.Track(ctx, domain.EntityChange{
		Table: domain.TableUsers, Action: domain.AuditModified, EntityID: u.ID,
		Before: before.AuditFields(), After: updated.AuditFields(),
	}); err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

func (r *Repo) Remove(ctx context.Context, id int64) error {
	q := postgres.QuerierFromCtx(ctx, r.db)
	removed, err := scan(q.QueryRow(ctx, `DELETE FROM users WHERE id=$1 RETURNING `+columns, id))
	if err != nil {
		return postgres.MapDeleteError(err, "user", id)
	}
	return postgres.Track(ctx, domain.EntityChange{
		Table: domain.TableUsers, Action: domain.AuditDeleted, EntityID: id,
		Before: removed.AuditFields(),
	})
}

func (r *Repo) get(ctx context.Context, sql string, id int64) (domain.User, error) {
	u, err := scan(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, id))
	if err != nil {
		return domain.User{}, postgres.MapError(err, "user", id)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scan(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.LastName, &u.Email, &u.Age, &u.Address, &u.CreatedAt)
	return u, err
}
