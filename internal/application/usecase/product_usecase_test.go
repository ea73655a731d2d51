package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/application/inventory"
	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/application/usecase"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
	"github.com/jhoicas/estoque-escolar/internal/infrastructure/memory"
)

var (
	admin  = entity.Profile{ID: "admin-1", Email: "diretora@escola.br", Role: entity.RoleAdmin, IsActive: true}
	simple = entity.Profile{ID: "simple-1", Email: "auxiliar@escola.br", Role: entity.RoleSimple, IsActive: true}
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func newProductUseCase(t *testing.T) (*usecase.ProductUseCase, *memory.Store, *memory.Hub) {
	t.Helper()
	store := memory.NewStore()
	hub := memory.NewHub()
	return usecase.NewProductUseCase(store.Products(), store, hub, nil), store, hub
}

func TestProductUseCase_Create(t *testing.T) {
	uc, store, hub := newProductUseCase(t)
	ctx := context.Background()
	var changed []string
	hub.Subscribe(notify.TableProducts, func(table string) { changed = append(changed, table) })

	out, err := uc.Create(ctx, admin, dto.CreateProductRequest{Name: " Caderno ", Unit: "unidade", Quantity: 12, MinStock: 5, Category: "Papelaria"})
	require.NoError(t, err)
	assert.Equal(t, "Caderno", out.Name)
	assert.False(t, out.LowStock)
	assert.Equal(t, []string{notify.TableProducts}, changed)

	stored, err := store.Products().GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, stored.OpeningQuantity, "la cantidad inicial es el saldo de apertura")
}

func TestProductUseCase_CreateValidacionYPermiso(t *testing.T) {
	uc, _, _ := newProductUseCase(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin nombre", dto.CreateProductRequest{Unit: "un", Category: "X"}},
		{"sin unidad", dto.CreateProductRequest{Name: "A", Category: "X"}},
		{"sin categoria", dto.CreateProductRequest{Name: "A", Unit: "un"}},
		{"cantidad negativa", dto.CreateProductRequest{Name: "A", Unit: "un", Category: "X", Quantity: -1}},
		{"minimo negativo", dto.CreateProductRequest{Name: "A", Unit: "un", Category: "X", MinStock: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, admin, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err := uc.Create(ctx, simple, dto.CreateProductRequest{Name: "A", Unit: "un", Category: "X"})
	assert.ErrorIs(t, err, domain.ErrPermission)
}

func TestProductUseCase_UpdateCorrigeSaldoDeApertura(t *testing.T) {
	uc, store, _ := newProductUseCase(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, admin, dto.CreateProductRequest{Name: "Cola", Unit: "tubo", Quantity: 5, Category: "Papelaria"})
	require.NoError(t, err)
	// Simula una entrada ya registrada: quantity 8, apertura 5.
	_, err = store.Products().AdjustQuantity(ctx, created.ID, 3)
	require.NoError(t, err)

	out, err := uc.Update(ctx, admin, created.ID, dto.UpdateProductRequest{Quantity: intPtr(6), MinStock: intPtr(6), Name: strPtr("Cola branca")})
	require.NoError(t, err)
	assert.Equal(t, 6, out.Quantity)
	assert.True(t, out.LowStock)
	assert.Equal(t, "Cola branca", out.Name)

	stored, _ := store.Products().GetByID(ctx, created.ID)
	assert.Equal(t, 3, stored.OpeningQuantity, "6 = 3 + 3 de entradas")

	_, err = uc.Update(ctx, admin, created.ID, dto.UpdateProductRequest{Category: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Update(ctx, admin, "ghost", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// interleavedRunner ejecuta fn sin aislar las sentencias entre sí, como READ COMMITTED:
// justo después de la primera lectura de producto corre afterRead, que confirma otra
// operación por fuera.
type interleavedRunner struct {
	store     *memory.Store
	afterRead func()
}

func (r *interleavedRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.EntryRepository, repository.ExitRepository) error) error {
	products := &readHookRepo{ProductRepository: r.store.Products(), hook: r.afterRead}
	r.afterRead = nil
	return fn(products, r.store.Entries(), r.store.Exits())
}

type readHookRepo struct {
	repository.ProductRepository
	hook func()
}

func (r *readHookRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.ProductRepository.GetByID(ctx, id)
	if hook := r.hook; hook != nil {
		r.hook = nil
		hook()
	}
	return p, err
}

func TestProductUseCase_UpdateConservaMovimientoConcurrente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reconciliation := inventory.NewReconciliationUseCase(store, nil, nil, nil)
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "p1", Name: "Lapis", Unit: "caixa", Category: "Papelaria", Quantity: 10, OpeningQuantity: 10,
	}))
	runner := &interleavedRunner{store: store}
	uc := usecase.NewProductUseCase(store.Products(), runner, nil, nil)

	// Renombrar mientras se confirma una salida de 4.
	runner.afterRead = func() {
		_, err := reconciliation.RecordExit(ctx, simple, inventory.RecordInput{ProductID: "p1", Quantity: 4})
		require.NoError(t, err)
	}
	out, err := uc.Update(ctx, admin, "p1", dto.UpdateProductRequest{Name: strPtr("Lapis HB")})
	require.NoError(t, err)
	assert.Equal(t, "Lapis HB", out.Name)
	assert.Equal(t, 6, out.Quantity)

	stored, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Quantity, "la salida concurrente no se pierde")
	assert.Equal(t, 10, stored.OpeningQuantity)

	// Corregir la cantidad mientras se confirma una entrada de 5.
	runner.afterRead = func() {
		_, err := reconciliation.RecordEntry(ctx, simple, inventory.RecordInput{ProductID: "p1", Quantity: 5})
		require.NoError(t, err)
	}
	out, err = uc.Update(ctx, admin, "p1", dto.UpdateProductRequest{Quantity: intPtr(20)})
	require.NoError(t, err)
	assert.Equal(t, 20, out.Quantity)

	stored, err = store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 20, stored.Quantity)
	assert.Equal(t, 19, stored.OpeningQuantity, "20 = 19 + 5 - 4")
	assert.Equal(t, "Lapis HB", stored.Name)
}

func TestProductUseCase_GroupedYCategorias(t *testing.T) {
	uc, store, _ := newProductUseCase(t)
	ctx := context.Background()

	for _, p := range []dto.CreateProductRequest{
		{Name: "lápis", Unit: "caixa", Category: "Papelaria"},
		{Name: "Apagador", Unit: "unidade", Category: "Sala"},
		{Name: "Borracha", Unit: "unidade", Category: "Papelaria"},
		{Name: "Álcool", Unit: "litro", Category: "Limpeza"},
	} {
		_, err := uc.Create(ctx, admin, p)
		require.NoError(t, err)
	}
	// Producto legado sin categoría.
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "legacy", Name: "Giz", Unit: "caixa"}))

	groups, err := uc.Grouped(ctx, simple)
	require.NoError(t, err)
	var cats []string
	for _, g := range groups {
		cats = append(cats, g.Category)
	}
	assert.Equal(t, []string{"Limpeza", "Papelaria", "Sala", entity.CategoryNone}, cats)
	require.Len(t, groups[1].Products, 2)
	assert.Equal(t, "Borracha", groups[1].Products[0].Name)
	assert.Equal(t, "lápis", groups[1].Products[1].Name)

	list, err := uc.List(ctx, simple)
	require.NoError(t, err)
	assert.Equal(t, "Álcool", list[0].Name, "orden pt-BR: acento no desplaza al final")

	categories, err := uc.Categories(ctx, simple)
	require.NoError(t, err)
	assert.Equal(t, []string{"Limpeza", "Papelaria", "Sala"}, categories)
}

func TestProductUseCase_DeletePublicaLibro(t *testing.T) {
	uc, _, hub := newProductUseCase(t)
	ctx := context.Background()
	var changed []string
	hub.Subscribe(notify.AllTables, func(table string) { changed = append(changed, table) })

	created, err := uc.Create(ctx, admin, dto.CreateProductRequest{Name: "Tesoura", Unit: "unidade", Category: "Papelaria"})
	require.NoError(t, err)
	changed = nil

	assert.ErrorIs(t, uc.Delete(ctx, simple, created.ID), domain.ErrPermission)
	require.NoError(t, uc.Delete(ctx, admin, created.ID))
	assert.ElementsMatch(t, []string{notify.TableProducts, notify.TableEntries, notify.TableExits}, changed)

	_, err = uc.GetByID(ctx, admin, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
