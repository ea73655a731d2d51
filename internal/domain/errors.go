package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrPermission        = errors.New("permiso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrStore             = errors.New("fallo de persistencia")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autenticado")
)

// StoreError envuelve un fallo de transporte/persistencia indicando la operación.
// errors.Is(err, ErrStore) es verdadero para cualquier StoreError.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrStore).
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// NewStoreError construye un StoreError; nil si err es nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// Validationf devuelve un error que satisface errors.Is(err, ErrValidation).
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Permissionf devuelve un error que satisface errors.Is(err, ErrPermission).
func Permissionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPermission, fmt.Sprintf(format, args...))
}
