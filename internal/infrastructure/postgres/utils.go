package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código SQLSTATE de unique_violation.
const uniqueViolationCode = "23505"

// isUniqueViolation verifica si un error proviene de una violación de
// constraint único. Solo se confía en el código SQLSTATE del error pgconn;
// buscar "23505" en el texto podría dar falsos positivos con datos del
// usuario reflejados en el mensaje.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
