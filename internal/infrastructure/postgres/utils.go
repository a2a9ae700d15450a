package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/globaltechnology/inventario-ventas/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isConcurrencyFailure deadlock (40P01) o fallo de serialización (40001).
func isConcurrencyFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40P01" || pgErr.Code == "40001"
	}
	return false
}

// invalidValue traduce los rechazos de valor de la BD: texto que no convierte al tipo de la
// columna (22P02, p. ej. un UUID mal formado) y número fuera de rango (22003). nil si no aplica.
func invalidValue(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case "22P02":
		return domain.ErrInvalidID
	case "22003":
		return domain.ErrAmountTooLarge
	}
	return nil
}

// wrapErr envuelve el error del driver con la operación. Deadlocks y fallos de
// serialización se exponen como domain.ErrConcurrentUpdate para que el cliente reintente;
// valores que la BD no acepta, como domain.ErrInvalidInput.
func wrapErr(op string, err error) error {
	if isConcurrencyFailure(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConcurrentUpdate, err)
	}
	if derr := invalidValue(err); derr != nil {
		return fmt.Errorf("%s: %w: %w", op, derr, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullString convierte "" en NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stateStrings[T ~string](states []T) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}
