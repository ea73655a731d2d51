package entity

import "time"

// CategoryNone agrupa productos sin categoría en los listados.
const CategoryNone = "Sem Categoria"

// Product representa un material escolar en stock.
// Quantity = OpeningQuantity + Σ entradas − Σ salidas (invariante de conciliación).
// OpeningQuantity registra el saldo inicial o la última corrección administrativa.
type Product struct {
	ID              string
	Name            string
	Unit            string // unidad de medida: caixa, pacote, unidade...
	Quantity        int
	MinStock        int
	Category        string
	OpeningQuantity int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLowStock indica si el producto está en el mínimo o por debajo (inclusivo).
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

// CategoryOrNone devuelve la categoría o CategoryNone si está vacía.
func (p Product) CategoryOrNone() string {
	if p.Category == "" {
		return CategoryNone
	}
	return p.Category
}
