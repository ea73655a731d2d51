// Package access decide qué puede hacer un perfil según su rol y estado.
package access

import (
	"fmt"

	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

// Action operación protegida por la política.
type Action string

const (
	ProductsRead  Action = "products:read"
	ProductsWrite Action = "products:write"
	LedgerRecord  Action = "ledger:record"
	LedgerAmend   Action = "ledger:amend" // editar o eliminar entradas/salidas
	LedgerRead    Action = "ledger:read"  // reportes y alertas incluidos
	UsersManage   Action = "users:manage"
)

// ErrSelfChange intento de cambiar rol o activación del propio perfil. Cumple ErrPermission.
var ErrSelfChange = fmt.Errorf("%w: no se puede modificar el propio perfil", domain.ErrPermission)

var simpleActions = map[Action]bool{
	ProductsRead: true,
	LedgerRecord: true,
	LedgerRead:   true,
}

// Allowed indica si actor puede ejecutar action.
func Allowed(actor entity.Profile, action Action) bool {
	if !actor.IsActive {
		return false
	}
	switch actor.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleSimple:
		return simpleActions[action]
	default:
		return false
	}
}

// Authorize devuelve un error ErrPermission si actor no puede ejecutar action.
func Authorize(actor entity.Profile, action Action) error {
	if !actor.IsActive {
		return domain.Permissionf("perfil inactivo: %s", action)
	}
	if !Allowed(actor, action) {
		return domain.Permissionf("rol %q no permite %s", actor.Role, action)
	}
	return nil
}

// AuthorizeProfileChange valida que actor pueda cambiar rol o activación de targetID.
// Nadie puede modificar su propio perfil, sea cual sea el rol.
func AuthorizeProfileChange(actor entity.Profile, targetID string) error {
	if actor.ID == targetID {
		return ErrSelfChange
	}
	return Authorize(actor, UsersManage)
}
