package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	apphttp "github.com/jhoicas/estoque-escolar/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/estoque-escolar/pkg/jwt"
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para resolver el perfil de la sesión
//   - RequireActive y RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(env *testEnv, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(env.authUC),
		apphttp.RequireActive(),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			p, _ := apphttp.GetProfile(c)
			return c.JSON(fiber.Map{"ok": true, "role": p.Role})
		},
	)
	return app
}

func doProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole / RequireActive
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.user(t, "diretora@escola.br", entity.RoleAdmin, true)

	resp := doProtected(t, buildTestApp(env, entity.RoleAdmin), "Bearer "+token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_SimpleBloqueadoEnRutaAdmin(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.user(t, "auxiliar@escola.br", entity.RoleSimple, true)

	resp := doProtected(t, buildTestApp(env, entity.RoleAdmin), "Bearer "+token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_MultiRol(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.user(t, "auxiliar@escola.br", entity.RoleSimple, true)

	resp := doProtected(t, buildTestApp(env, entity.RoleAdmin, entity.RoleSimple), "Bearer "+token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// El rol se lee del perfil en cada request: desactivar corta el acceso con el mismo token.
func TestRequireActive_DesactivacionInmediata(t *testing.T) {
	env := newTestEnv(t)
	token, id := env.user(t, "diretora@escola.br", entity.RoleAdmin, true)
	app := buildTestApp(env, entity.RoleAdmin)

	resp := doProtected(t, app, "Bearer "+token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	profile, err := env.store.Profiles().GetByID(t.Context(), id)
	require.NoError(t, err)
	profile.IsActive = false
	require.NoError(t, env.store.Profiles().Update(t.Context(), profile))

	resp = doProtected(t, app, "Bearer "+token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	status, raw := env.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, raw).Code)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	status, _ := env.do(t, http.MethodGet, "/api/products", "token.invalido.aqui", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthMiddleware_SecretIncorrecto_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	tok, err := pkgjwt.Generate("otro-secret", "u-1", "x@escola.br", testIssuer, 60)
	require.NoError(t, err)

	status, _ := env.do(t, http.MethodGet, "/api/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

// Un token válido de una identidad sin perfil crea el perfil pendiente en la primera sesión.
func TestAuthMiddleware_CreaPerfilPendiente(t *testing.T) {
	env := newTestEnv(t)
	tok, err := pkgjwt.Generate(testJWTSecret, "ext-42", "nova@escola.br", testIssuer, 60)
	require.NoError(t, err)

	status, raw := env.do(t, http.MethodGet, "/api/me", tok, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	me := decode[dto.ProfileResponse](t, raw)
	assert.Equal(t, "ext-42", me.ID)
	assert.Equal(t, entity.RolePending, me.Role)
	assert.False(t, me.IsActive)
}
