package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/access"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

func profile(id, role string, active bool) entity.Profile {
	return entity.Profile{ID: id, Email: id + "@escola.br", Role: role, IsActive: active}
}

func TestAuthorize_PorRol(t *testing.T) {
	all := []access.Action{
		access.ProductsRead, access.ProductsWrite, access.LedgerRecord,
		access.LedgerAmend, access.LedgerRead, access.UsersManage,
	}
	tests := []struct {
		name    string
		actor   entity.Profile
		allowed map[access.Action]bool
	}{
		{
			name:  "admin activo puede todo",
			actor: profile("a", entity.RoleAdmin, true),
			allowed: map[access.Action]bool{
				access.ProductsRead: true, access.ProductsWrite: true, access.LedgerRecord: true,
				access.LedgerAmend: true, access.LedgerRead: true, access.UsersManage: true,
			},
		},
		{
			name:  "simple lee y registra",
			actor: profile("s", entity.RoleSimple, true),
			allowed: map[access.Action]bool{
				access.ProductsRead: true, access.LedgerRecord: true, access.LedgerRead: true,
			},
		},
		{name: "pending no puede nada", actor: profile("p", entity.RolePending, true)},
		{name: "admin inactivo no puede nada", actor: profile("x", entity.RoleAdmin, false)},
		{name: "simple inactivo no puede nada", actor: profile("y", entity.RoleSimple, false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, action := range all {
				err := access.Authorize(tt.actor, action)
				if tt.allowed[action] {
					assert.NoError(t, err, string(action))
				} else {
					assert.ErrorIs(t, err, domain.ErrPermission, string(action))
				}
				assert.Equal(t, tt.allowed[action], access.Allowed(tt.actor, action), string(action))
			}
		})
	}
}

func TestAuthorizeProfileChange(t *testing.T) {
	admin := profile("admin-1", entity.RoleAdmin, true)

	assert.NoError(t, access.AuthorizeProfileChange(admin, "otro"))
	assert.ErrorIs(t, access.AuthorizeProfileChange(admin, "admin-1"), access.ErrSelfChange,
		"un admin no puede modificarse a sí mismo")
	assert.ErrorIs(t, access.AuthorizeProfileChange(admin, "admin-1"), domain.ErrPermission)

	inactive := profile("y-1", entity.RoleSimple, false)
	assert.ErrorIs(t, access.AuthorizeProfileChange(inactive, "y-1"), access.ErrSelfChange,
		"la regla de autocambio se evalúa antes que rol y estado")

	simple := profile("s-1", entity.RoleSimple, true)
	assert.ErrorIs(t, access.AuthorizeProfileChange(simple, "otro"), domain.ErrPermission)
}
