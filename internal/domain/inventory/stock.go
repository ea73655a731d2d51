package inventory

import (
	"fmt"

	"github.com/jhoicas/estoque-escolar/internal/domain"
)

// Adjustment cambio de cantidad a aplicar sobre un producto.
type Adjustment struct {
	ProductID string
	Delta     int
}

// Adjust aplica delta a quantity. Devuelve ErrInsufficientStock si el resultado queda negativo.
func Adjust(quantity, delta int) (int, error) {
	next := quantity + delta
	if next < 0 {
		return quantity, fmt.Errorf("%w: disponible %d, ajuste %d", domain.ErrInsufficientStock, quantity, delta)
	}
	return next, nil
}

// EntryEffect efecto sobre el stock de una entrada de qty unidades.
func EntryEffect(qty int) int { return qty }

// ExitEffect efecto sobre el stock de una salida de qty unidades.
func ExitEffect(qty int) int { return -qty }

// RecordAdjustments ajustes para registrar un movimiento nuevo con el efecto dado.
func RecordAdjustments(productID string, effect int) []Adjustment {
	return []Adjustment{{ProductID: productID, Delta: effect}}
}

// RevertAdjustments ajustes para deshacer un movimiento existente.
func RevertAdjustments(productID string, effect int) []Adjustment {
	return []Adjustment{{ProductID: productID, Delta: -effect}}
}

// EditAdjustments ajustes para reemplazar un movimiento (oldProduct, oldEffect) por
// (newProduct, newEffect). Mismo producto: un único delta. Producto distinto: primero se
// revierte el efecto en el producto anterior y luego se aplica en el nuevo.
func EditAdjustments(oldProduct string, oldEffect int, newProduct string, newEffect int) []Adjustment {
	if oldProduct == newProduct {
		return []Adjustment{{ProductID: newProduct, Delta: newEffect - oldEffect}}
	}
	return []Adjustment{
		{ProductID: oldProduct, Delta: -oldEffect},
		{ProductID: newProduct, Delta: newEffect},
	}
}
