package dto

import "time"

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileResponse salida de un perfil.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token JWT y perfil. AwaitingActivation indica que el perfil aún no fue
// liberado por un administrador.
type LoginResponse struct {
	Token              string          `json:"token"`
	AwaitingActivation bool            `json:"awaiting_activation"`
	Message            string          `json:"message"`
	Profile            ProfileResponse `json:"profile"`
}

// RegisterResponse identidad creada y su perfil pendiente.
type RegisterResponse struct {
	Message string          `json:"message"`
	Profile ProfileResponse `json:"profile"`
}

// ChangeRoleRequest body para PATCH /api/users/:id/role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=pending simple admin"`
}

// ProfileActionResponse resultado de activar/desactivar o cambiar rol.
type ProfileActionResponse struct {
	Message string          `json:"message"`
	Profile ProfileResponse `json:"profile"`
}
