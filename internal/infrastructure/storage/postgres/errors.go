package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pharmacy/internal/core/apperror"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgForeignKey      = "23503"
	pgNumericRange    = "22003"
	pgDeadlock        = "40P01"
	pgSerialization   = "40001"
)

// stockConstraints are the CHECK constraints guarding catalog quantities.
// Every other check violation is a malformed row.
var stockConstraints = map[string]bool{
	"chk_medicines_quantity": true,
	"chk_products_quantity":  true,
}

// IsNoRows reports whether err is pgx.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// MapError converts constraint violations into AppErrors and returns any
// other error unchanged.
func MapError(err error, entity string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return apperror.NewDuplicate(entity, pgErr.ConstraintName, pgErr.Detail).WithCause(err)
	case pgCheckViolation:
		if stockConstraints[pgErr.ConstraintName] {
			return apperror.NewBusinessRule(apperror.CodeNegativeStock, "Stock cannot become negative").
				WithDetail("entity", entity).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
		return apperror.NewValidation("record violates a constraint").
			WithDetail("entity", entity).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	case pgNumericRange:
		return apperror.NewValidation("value out of range").
			WithDetail("entity", entity).
			WithCause(err)
	case pgDeadlock, pgSerialization:
		return apperror.NewConflict("concurrent update, retry the request").
			WithDetail("entity", entity).
			WithCause(err)
	case pgForeignKey:
		return apperror.NewValidation("referenced record does not exist").
			WithDetail("entity", entity).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}
	return err
}
