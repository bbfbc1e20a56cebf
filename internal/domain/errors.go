package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidQuantity     = errors.New("cantidad inválida: debe ser mayor que cero")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrUnitMismatch        = errors.New("unidad de medida no coincide con el registro")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia: reintentos agotados")
	ErrPersistence         = errors.New("error de persistencia")
)

// InsufficientStockError identifica qué (tienda, artículo) no tiene stock suficiente.
// Unwrap devuelve ErrInsufficientStock para comparar con errors.Is.
type InsufficientStockError struct {
	StoreID   string
	ItemID    string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el artículo %s en la tienda %s: disponible %s, solicitado %s",
		e.ItemID, e.StoreID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// UnitMismatchError lleva la unidad establecida del registro frente a la solicitada.
// No hay conversión implícita de unidades.
type UnitMismatchError struct {
	StoreID  string
	ItemID   string
	Expected string
	Got      string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("unidad %q no coincide con la unidad %q del registro (%s, %s)",
		e.Got, e.Expected, e.StoreID, e.ItemID)
}

func (e *UnitMismatchError) Unwrap() error { return ErrUnitMismatch }
