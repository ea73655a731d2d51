package inventory

import (
	"context"

	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún cambio aplicado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		entries repository.EntryRepository,
		exits repository.ExitRepository,
	) error) error
}
