package repository

import (
	"context"

	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Update persiste los campos descriptivos (name, unit, min_stock, category). Nunca toca
	// quantity ni opening_quantity.
	Update(ctx context.Context, product *entity.Product) error
	// SetQuantity fija quantity en una sola operación y desplaza opening_quantity en la misma
	// diferencia respecto del valor vigente. ErrNotFound si el producto no existe.
	SetQuantity(ctx context.Context, id string, quantity int) (*entity.Product, error)
	// AdjustQuantity suma delta a quantity de forma atómica y devuelve el valor resultante.
	// Si el resultado fuera negativo no modifica nada y devuelve ErrInsufficientStock;
	// si el producto no existe devuelve ErrNotFound.
	AdjustQuantity(ctx context.Context, id string, delta int) (int, error)
	List(ctx context.Context) ([]*entity.Product, error)
	// Delete elimina el producto y en cascada sus entradas y salidas.
	Delete(ctx context.Context, id string) error
}
