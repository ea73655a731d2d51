package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-escolar/internal/application/auth"
	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/application/inventory"
	"github.com/jhoicas/estoque-escolar/internal/application/report"
	"github.com/jhoicas/estoque-escolar/internal/application/usecase"
	"github.com/jhoicas/estoque-escolar/internal/infrastructure/export"
	"github.com/jhoicas/estoque-escolar/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/estoque-escolar/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "estoque-escolar-test"
	testPassword  = "senha-segura-123"
)

type testEnv struct {
	app    *fiber.App
	store  *memory.Store
	authUC *auth.AuthUseCase
}

// newTestEnv monta la API completa sobre el store en memoria.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	hub := memory.NewHub()
	authUC := auth.NewAuthUseCase(store.Identities(), store.Profiles(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer,
	}, hub, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      usecase.NewProductUseCase(store.Products(), store, hub, nil),
		UserUC:         usecase.NewUserUseCase(store.Profiles(), hub, nil),
		Reconciliation: inventory.NewReconciliationUseCase(store, hub, nil, nil),
		Reports:        report.NewService(store.Products(), store.Entries(), store.Exits(), nil, nil, export.PDF{}, export.XLSX{}),
		Changes:        hub,
	})
	return &testEnv{app: app, store: store, authUC: authUC}
}

// user registra una identidad, fija rol y activación y devuelve su token y su id.
func (e *testEnv) user(t *testing.T, email, role string, active bool) (token, id string) {
	t.Helper()
	ctx := context.Background()
	reg, err := e.authUC.Register(ctx, dto.RegisterRequest{Email: email, Password: testPassword})
	require.NoError(t, err)

	profile, err := e.store.Profiles().GetByID(ctx, reg.Profile.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	profile.Role = role
	profile.IsActive = active
	require.NoError(t, e.store.Profiles().Update(ctx, profile))

	login, err := e.authUC.Login(ctx, dto.LoginRequest{Email: email, Password: testPassword})
	require.NoError(t, err)
	return login.Token, reg.Profile.ID
}

// do lanza la petición y devuelve status y body crudo.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// decode deserializa raw en out.
func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

// createProduct crea un producto como admin y devuelve su id.
func (e *testEnv) createProduct(t *testing.T, adminToken, name string, qty, min int) string {
	t.Helper()
	status, raw := e.do(t, http.MethodPost, "/api/products", adminToken, dto.CreateProductRequest{
		Name: name, Unit: "unidade", Quantity: qty, MinStock: min, Category: "Papelaria",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.ProductResponse](t, raw).ID
}
