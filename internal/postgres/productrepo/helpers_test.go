package productrepo_test

import "github.com/jackc/pgx/v5/pgconn"

func fkViolation() error {
	return &pgconn.PgError{Code: "23503", Message: "update or delete on table violates foreign key constraint"}
}
