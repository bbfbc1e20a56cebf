package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // unique_violation
}

// recordUniqueConstraint nombre del UNIQUE(store_id, item_id) de inventory_records.
const recordUniqueConstraint = "inventory_records_store_id_item_id_key"

// isRetryableTxError verifica si la transacción falló por contención y puede
// reintentarse: serialization_failure (40001), deadlock_detected (40P01) o
// lock_not_available (55P03). El 23505 sobre el UNIQUE de inventory_records
// también reintenta: dos primeros movimientos concurrentes sobre el mismo
// (tienda, artículo) no ven fila en el SELECT FOR UPDATE e insertan ambos;
// la tx perdedora encuentra la fila al reintentar y la bloquea.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03":
		return true
	case "23505":
		return pgErr.ConstraintName == recordUniqueConstraint
	}
	return false
}
