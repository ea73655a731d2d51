package entity

import "time"

// Roles válidos para Profile.
const (
	RolePending = "pending"
	RoleSimple  = "simple"
	RoleAdmin   = "admin"
)

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RolePending, RoleSimple, RoleAdmin:
		return true
	}
	return false
}

// Profile datos de autorización de un usuario; ID coincide con Identity.ID.
// Se crea automáticamente en la primera sesión con role=pending e IsActive=false.
type Profile struct {
	ID        string
	Email     string
	Role      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin indica si el perfil tiene rol admin.
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// NewPendingProfile construye el perfil por defecto de un usuario recién autenticado.
func NewPendingProfile(id, email string, now time.Time) *Profile {
	return &Profile{
		ID:        id,
		Email:     email,
		Role:      RolePending,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
