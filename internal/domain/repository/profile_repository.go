package repository

import (
	"context"

	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile (DIP).
type ProfileRepository interface {
	// Create inserta el perfil; ErrDuplicate si ya existe uno con ese ID.
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
	List(ctx context.Context) ([]*entity.Profile, error)
}

// IdentityRepository credenciales de login.
type IdentityRepository interface {
	Create(ctx context.Context, identity *entity.Identity) error
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
}
