package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-escolar/internal/application/auth"
	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-escolar/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 5, Issuer: "estoque-test"}

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Identities(), store.Profiles(), jwtCfg, nil, nil), store
}

func TestRegisterYLoginPendiente(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	reg, err := uc.Register(ctx, dto.RegisterRequest{Email: " Prof@Escola.br ", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, auth.MsgRegistered, reg.Message)
	assert.Equal(t, "prof@escola.br", reg.Profile.Email)
	assert.Equal(t, entity.RolePending, reg.Profile.Role)
	assert.False(t, reg.Profile.IsActive)

	identity, err := store.Identities().GetByEmail(ctx, "prof@escola.br")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo123", identity.PasswordHash, "nunca se guarda la contraseña en claro")

	login, err := uc.Login(ctx, dto.LoginRequest{Email: "PROF@escola.br", Password: "segredo123"})
	require.NoError(t, err)
	assert.True(t, login.AwaitingActivation)
	assert.Equal(t, auth.MsgAwaitingActivation, login.Message)

	userID, email, err := jwt.Parse(jwtCfg.Secret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, userID)
	assert.Equal(t, "prof@escola.br", email)
}

func TestLogin_Activo(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	reg, err := uc.Register(ctx, dto.RegisterRequest{Email: "admin@escola.br", Password: "segredo123"})
	require.NoError(t, err)
	profile, _ := store.Profiles().GetByID(ctx, reg.Profile.ID)
	profile.Role = entity.RoleAdmin
	profile.IsActive = true
	require.NoError(t, store.Profiles().Update(ctx, profile))

	login, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@escola.br", Password: "segredo123"})
	require.NoError(t, err)
	assert.False(t, login.AwaitingActivation)
	assert.Equal(t, auth.MsgLoggedIn, login.Message)
	assert.Equal(t, entity.RoleAdmin, login.Profile.Role)
}

func TestRegister_Errores(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, dto.RegisterRequest{Email: "sem-arroba", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Register(ctx, dto.RegisterRequest{Email: "a@escola.br", Password: "curta"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Register(ctx, dto.RegisterRequest{Email: "a@escola.br", Password: "segredo123"})
	require.NoError(t, err)
	_, err = uc.Register(ctx, dto.RegisterRequest{Email: "A@escola.br", Password: "outrasenha"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Email: "a@escola.br", Password: "segredo123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@escola.br", Password: "errada123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "b@escola.br", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolveSession_CreaPerfilPendiente(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	token, err := jwt.Generate(jwtCfg.Secret, "ext-1", "externo@escola.br", jwtCfg.Issuer, 5)
	require.NoError(t, err)

	profile, err := uc.ResolveSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ext-1", profile.ID)
	assert.Equal(t, entity.RolePending, profile.Role)
	assert.False(t, profile.IsActive)

	again, err := uc.ResolveSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, profile.CreatedAt, again.CreatedAt, "la segunda sesión reutiliza el perfil")

	list, _ := store.Profiles().List(ctx)
	assert.Len(t, list, 1)

	_, err = uc.ResolveSession(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestBootstrapAdmin_Idempotente(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	first, err := uc.BootstrapAdmin(ctx, "Diretora@Escola.br", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.Role)
	assert.True(t, first.IsActive)

	second, err := uc.BootstrapAdmin(ctx, "diretora@escola.br", "otra-clave-ignorada")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	login, err := uc.Login(ctx, dto.LoginRequest{Email: "diretora@escola.br", Password: "segredo123"})
	require.NoError(t, err)
	assert.False(t, login.AwaitingActivation)
}

func TestBootstrapAdmin_PromueveIdentidadExistente(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	reg, err := uc.Register(ctx, dto.RegisterRequest{Email: "prof@escola.br", Password: "segredo123"})
	require.NoError(t, err)

	_, err = uc.BootstrapAdmin(ctx, "prof@escola.br", "")
	require.NoError(t, err)

	profile, err := store.Profiles().GetByID(ctx, reg.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, profile.Role)
	assert.True(t, profile.IsActive)
}
