package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
)

var (
	_ repository.ProfileRepository  = (*ProfileRepo)(nil)
	_ repository.IdentityRepository = (*IdentityRepo)(nil)
)

// ProfileRepo implementación del puerto ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador de persistencia para perfiles.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// Create persiste un perfil nuevo; ErrDuplicate si el id ya existe.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, email, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, p.ID, p.Email, p.Role, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.NewStoreError("insert profile", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID; (nil, nil) si no existe.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	query := `SELECT id, email, role, is_active, created_at, updated_at FROM profiles WHERE id = $1`
	p, err := scanProfile(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStoreError("get profile", err)
	}
	return p, nil
}

// Update actualiza rol y estado del perfil.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE profiles SET email = $2, role = $3, is_active = $4, updated_at = $5 WHERE id = $1`,
		p.ID, p.Email, p.Role, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return domain.NewStoreError("update profile", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: perfil %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

// List lista los perfiles ordenados por email.
func (r *ProfileRepo) List(ctx context.Context) ([]*entity.Profile, error) {
	rows, err := r.q.Query(ctx, `SELECT id, email, role, is_active, created_at, updated_at FROM profiles ORDER BY email, id`)
	if err != nil {
		return nil, domain.NewStoreError("list profiles", err)
	}
	defer rows.Close()

	var list []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, domain.NewStoreError("scan profile", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list profiles", err)
	}
	return list, nil
}

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	var p entity.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.Role, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// IdentityRepo credenciales de login sobre PostgreSQL. El email es único sin distinguir mayúsculas.
type IdentityRepo struct {
	q Querier
}

// NewIdentityRepository construye el adaptador de credenciales.
func NewIdentityRepository(q Querier) *IdentityRepo {
	return &IdentityRepo{q: q}
}

// Create persiste la identidad; ErrDuplicate si el email ya existe.
func (r *IdentityRepo) Create(ctx context.Context, i *entity.Identity) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO identities (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		i.ID, i.Email, i.PasswordHash, i.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.NewStoreError("insert identity", err)
	}
	return nil
}

// GetByEmail obtiene la identidad por email; (nil, nil) si no existe.
func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	var i entity.Identity
	err := r.q.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM identities WHERE lower(email) = lower($1)`, email,
	).Scan(&i.ID, &i.Email, &i.PasswordHash, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStoreError("get identity", err)
	}
	return &i, nil
}
