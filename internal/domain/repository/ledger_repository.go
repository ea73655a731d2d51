package repository

import (
	"context"

	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

// EntryRepository puerto de persistencia para las entradas de stock.
// GetByID devuelve (nil, nil) si no existe.
type EntryRepository interface {
	Create(ctx context.Context, entry *entity.Entry) error
	GetByID(ctx context.Context, id string) (*entity.Entry, error)
	Update(ctx context.Context, entry *entity.Entry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Entry, error)
}

// ExitRepository puerto de persistencia para las salidas de stock.
type ExitRepository interface {
	Create(ctx context.Context, exit *entity.Exit) error
	GetByID(ctx context.Context, id string) (*entity.Exit, error)
	Update(ctx context.Context, exit *entity.Exit) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Exit, error)
}
