package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
	"github.com/jhoicas/estoque-escolar/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, s *memory.Store, id string, qty int) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID: id, Name: "Caderno " + id, Unit: "unidade", Quantity: qty, Category: "Papelaria",
	}))
}

func TestStore_RunRollbackEnError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 10)

	boom := errors.New("boom")
	err := s.Run(ctx, func(products repository.ProductRepository, entries repository.EntryRepository, _ repository.ExitRepository) error {
		_, err := products.AdjustQuantity(ctx, "p1", 5)
		require.NoError(t, err)
		require.NoError(t, entries.Create(ctx, &entity.Entry{LedgerRecord: entity.LedgerRecord{ID: "e1", ProductID: "p1", Quantity: 5}}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity, "la cantidad no debe cambiar tras rollback")
	e, err := s.Entries().GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestStore_RunCommit(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 10)

	err := s.Run(ctx, func(products repository.ProductRepository, _ repository.EntryRepository, exits repository.ExitRepository) error {
		if _, err := products.AdjustQuantity(ctx, "p1", -4); err != nil {
			return err
		}
		return exits.Create(ctx, &entity.Exit{LedgerRecord: entity.LedgerRecord{ID: "x1", ProductID: "p1", Quantity: 4}})
	})
	require.NoError(t, err)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 6, p.Quantity)
	x, _ := s.Exits().GetByID(ctx, "x1")
	require.NotNil(t, x)
}

func TestProductRepo_AdjustQuantity(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 3)
	repo := s.Products()

	q, err := repo.AdjustQuantity(ctx, "p1", -3)
	require.NoError(t, err)
	assert.Equal(t, 0, q)

	_, err = repo.AdjustQuantity(ctx, "p1", -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = repo.AdjustQuantity(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepo_DeleteEnCascada(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 0)
	seedProduct(t, s, "p2", 0)
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Entries().Create(ctx, &entity.Entry{LedgerRecord: entity.LedgerRecord{ID: "e1", ProductID: "p1", Quantity: 2, Date: day}}))
	require.NoError(t, s.Entries().Create(ctx, &entity.Entry{LedgerRecord: entity.LedgerRecord{ID: "e2", ProductID: "p2", Quantity: 2, Date: day}}))
	require.NoError(t, s.Exits().Create(ctx, &entity.Exit{LedgerRecord: entity.LedgerRecord{ID: "x1", ProductID: "p1", Quantity: 1, Date: day}}))

	require.NoError(t, s.Products().Delete(ctx, "p1"))

	entries, err := s.Entries().List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e2", entries[0].ID)
	exits, err := s.Exits().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, exits)

	assert.ErrorIs(t, s.Products().Delete(ctx, "p1"), domain.ErrNotFound)
}

func TestLedger_CreateConProductoInexistente(t *testing.T) {
	s := memory.NewStore()
	err := s.Entries().Create(context.Background(), &entity.Entry{LedgerRecord: entity.LedgerRecord{ID: "e1", ProductID: "ghost", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIdentityRepo_EmailUnico(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Identities()

	require.NoError(t, repo.Create(ctx, &entity.Identity{ID: "u1", Email: "Ana@Escola.br"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Identity{ID: "u2", Email: "ana@escola.br"}), domain.ErrDuplicate)

	got, err := repo.GetByEmail(ctx, "ANA@escola.br")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)

	missing, err := repo.GetByEmail(ctx, "x@escola.br")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestHub_Publish(t *testing.T) {
	hub := memory.NewHub()
	got := make(chan string, 1)
	unsubscribe := hub.Subscribe(notify.TableExits, func(table string) { got <- table })
	defer unsubscribe()

	require.NoError(t, hub.Publish(context.Background(), notify.TableExits))
	assert.Equal(t, notify.TableExits, <-got)
}
