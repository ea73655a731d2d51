package entity

import "time"

// Identity credenciales de login (proveedor de identidad). Separada de Profile:
// la identidad autentica, el perfil autoriza.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano
	CreatedAt    time.Time
}
