package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
)

var (
	_ repository.ProfileRepository  = (*ProfileRepo)(nil)
	_ repository.IdentityRepository = (*IdentityRepo)(nil)
)

// ProfileRepo perfiles en memoria.
type ProfileRepo struct {
	access accessor
}

func (r *ProfileRepo) Create(_ context.Context, profile *entity.Profile) error {
	return r.access(func(t *tables) error {
		if _, ok := t.profiles[profile.ID]; ok {
			return domain.ErrDuplicate
		}
		t.profiles[profile.ID] = *profile
		return nil
	})
}

func (r *ProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	var out *entity.Profile
	err := r.access(func(t *tables) error {
		if p, ok := t.profiles[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProfileRepo) Update(_ context.Context, profile *entity.Profile) error {
	return r.access(func(t *tables) error {
		if _, ok := t.profiles[profile.ID]; !ok {
			return fmt.Errorf("%w: perfil %s", domain.ErrNotFound, profile.ID)
		}
		t.profiles[profile.ID] = *profile
		return nil
	})
}

// List devuelve los perfiles ordenados por email.
func (r *ProfileRepo) List(_ context.Context) ([]*entity.Profile, error) {
	var out []*entity.Profile
	err := r.access(func(t *tables) error {
		out = make([]*entity.Profile, 0, len(t.profiles))
		for _, p := range t.profiles {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, err
}

// IdentityRepo credenciales en memoria; el email es único sin distinguir mayúsculas.
type IdentityRepo struct {
	access accessor
}

func (r *IdentityRepo) Create(_ context.Context, identity *entity.Identity) error {
	return r.access(func(t *tables) error {
		for _, existing := range t.identities {
			if strings.EqualFold(existing.Email, identity.Email) {
				return domain.ErrDuplicate
			}
		}
		t.identities[identity.ID] = *identity
		return nil
	})
}

func (r *IdentityRepo) GetByEmail(_ context.Context, email string) (*entity.Identity, error) {
	var out *entity.Identity
	err := r.access(func(t *tables) error {
		for _, existing := range t.identities {
			if strings.EqualFold(existing.Email, email) {
				existing := existing
				out = &existing
				return nil
			}
		}
		return nil
	})
	return out, err
}
