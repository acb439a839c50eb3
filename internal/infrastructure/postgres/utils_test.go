package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_number_key"}

	assert.True(t, isUniqueViolation(pgErr))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert invoice: %w", pgErr)), "debe atravesar el wrapping")
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}), "otra violación de constraint no cuenta")
	assert.False(t, isUniqueViolation(errors.New("factura 23505 no válida")),
		"un 23505 en datos del usuario no es una violación de unicidad")
	assert.False(t, isUniqueViolation(nil))
}
