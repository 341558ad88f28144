package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isConstraintViolation verifica si un error es una violación de CHECK (23514) o NOT NULL (23502),
// p. ej. stock negativo rechazado por tb_products.
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514" || pgErr.Code == "23502"
	}
	return false
}
