package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-escolar/internal/application/report"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/infrastructure/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(id, product string, qty int, date time.Time) *entity.Entry {
	return &entity.Entry{LedgerRecord: entity.LedgerRecord{ID: id, ProductID: product, Quantity: qty, Date: date, CreatedAt: date}}
}

func exit(id, product string, qty int, date time.Time) *entity.Exit {
	return &entity.Exit{LedgerRecord: entity.LedgerRecord{ID: id, ProductID: product, Quantity: qty, Date: date, CreatedAt: date}}
}

func ids(ms []entity.Movement) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func TestBuildMovements_OrdenYTipo(t *testing.T) {
	entries := []*entity.Entry{
		entry("e1", "p1", 10, day(2024, 1, 5)),
		entry("e2", "p2", 3, day(2024, 1, 20)),
	}
	exits := []*entity.Exit{
		exit("x1", "p1", 4, day(2024, 1, 10)),
	}

	all := report.BuildMovements(entries, exits, report.Filter{Type: report.TypeAll})
	assert.Equal(t, []string{"e2", "x1", "e1"}, ids(all))
	assert.Equal(t, entity.MovementTypeExit, all[1].Type)
	assert.Equal(t, -4, all[1].SignedQuantity())

	onlyExits := report.BuildMovements(entries, exits, report.Filter{Type: report.TypeExit})
	assert.Equal(t, []string{"x1"}, ids(onlyExits))

	onlyP1 := report.BuildMovements(entries, exits, report.Filter{ProductID: "p1"})
	assert.Equal(t, []string{"x1", "e1"}, ids(onlyP1))
}

func TestBuildMovements_FechaFinalInclusiva(t *testing.T) {
	entries := []*entity.Entry{
		entry("dec", "p1", 1, day(2023, 12, 31)),
		entry("first", "p1", 1, day(2024, 1, 1)),
		entry("last", "p1", 1, time.Date(2024, 1, 31, 18, 45, 0, 0, time.UTC)),
		entry("feb", "p1", 1, day(2024, 2, 1)),
	}
	got := report.BuildMovements(entries, nil, report.Filter{
		Start: day(2024, 1, 1),
		End:   day(2024, 1, 31),
	})
	assert.Equal(t, []string{"last", "first"}, ids(got))
}

func TestBuildMovements_Desempate(t *testing.T) {
	d := day(2024, 3, 1)
	a := entry("a", "p1", 1, d)
	b := entry("b", "p1", 1, d)
	b.CreatedAt = d.Add(time.Hour)
	c := exit("c", "p1", 1, d)

	got := report.BuildMovements([]*entity.Entry{a, b}, []*entity.Exit{c}, report.Filter{})
	assert.Equal(t, []string{"b", "a", "c"}, ids(got), "mismo día: created_at desc, luego id")
}

func TestBuildMovements_Vacio(t *testing.T) {
	got := report.BuildMovements(nil, nil, report.Filter{Type: report.TypeEntry})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterValidate(t *testing.T) {
	assert.NoError(t, report.Filter{Type: "ENTRY"}.Validate())
	assert.ErrorIs(t, report.Filter{Type: "transfer"}.Validate(), domain.ErrValidation)
	assert.ErrorIs(t, report.Filter{Start: day(2024, 2, 1), End: day(2024, 1, 1)}.Validate(), domain.ErrValidation)
	assert.NoError(t, report.Filter{Start: day(2024, 1, 1), End: day(2024, 1, 1)}.Validate())
}

func TestLowStock_Inclusivo(t *testing.T) {
	products := []*entity.Product{
		{ID: "a", Quantity: 2, MinStock: 2},
		{ID: "b", Quantity: 3, MinStock: 2},
		{ID: "c", Quantity: 0, MinStock: 0},
		{ID: "d", Quantity: 1, MinStock: 5},
	}
	low := report.LowStock(products)
	require.Len(t, low, 3)
	assert.Equal(t, "a", low[0].ID)
	assert.Equal(t, "c", low[1].ID)
	assert.Equal(t, "d", low[2].ID)

	assert.Empty(t, report.LowStock(nil))
}

func TestTotals(t *testing.T) {
	ms := report.BuildMovements(
		[]*entity.Entry{entry("e1", "p1", 10, day(2024, 1, 1)), entry("e2", "p1", 5, day(2024, 1, 2))},
		[]*entity.Exit{exit("x1", "p1", 7, day(2024, 1, 3))},
		report.Filter{},
	)
	in, out := report.Totals(ms)
	assert.Equal(t, 15, in)
	assert.Equal(t, 7, out)
}

// ──────────────────────────────────────────────────────────────────────────────
// Service
// ──────────────────────────────────────────────────────────────────────────────

type stubExporter struct{ last report.Report }

func (s *stubExporter) Format() string      { return "csv" }
func (s *stubExporter) ContentType() string { return "text/csv" }
func (s *stubExporter) Export(r report.Report) ([]byte, error) {
	s.last = r
	return []byte("ok"), nil
}

func newService(t *testing.T, exporters ...report.Exporter) (*report.Service, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Borracha", Unit: "unidade", Quantity: 1, MinStock: 3}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p2", Name: "Giz", Unit: "caixa", Quantity: 9, MinStock: 3}))
	require.NoError(t, store.Entries().Create(ctx, entry("e1", "p1", 4, day(2024, 5, 2))))
	require.NoError(t, store.Exits().Create(ctx, exit("x1", "p1", 3, day(2024, 5, 3))))
	return report.NewService(store.Products(), store.Entries(), store.Exits(), nil, nil, exporters...), store
}

func TestService_MovementsConNombre(t *testing.T) {
	svc, _ := newService(t)
	actor := entity.Profile{ID: "u", Role: entity.RoleSimple, IsActive: true}

	got, err := svc.Movements(context.Background(), actor, report.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "x1", got[0].ID)
	assert.Equal(t, "Borracha", got[0].ProductName)

	low, err := svc.LowStock(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p1", low[0].ID)
}

func TestService_PermisoYFormato(t *testing.T) {
	exp := &stubExporter{}
	svc, _ := newService(t, exp)
	ctx := context.Background()

	pending := entity.Profile{ID: "u", Role: entity.RolePending, IsActive: true}
	_, err := svc.Movements(ctx, pending, report.Filter{})
	assert.ErrorIs(t, err, domain.ErrPermission)
	_, err = svc.Entries(ctx, pending)
	assert.ErrorIs(t, err, domain.ErrPermission)

	admin := entity.Profile{ID: "a", Role: entity.RoleAdmin, IsActive: true}
	_, err = svc.Export(ctx, admin, report.Filter{}, "docx")
	assert.ErrorIs(t, err, domain.ErrValidation)

	doc, err := svc.Export(ctx, admin, report.Filter{Type: report.TypeEntry}, "CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
	assert.Contains(t, doc.Filename, ".csv")
	assert.Equal(t, 4, exp.last.TotalIn)
	assert.Equal(t, 0, exp.last.TotalOut)
}

func TestAttachProductNames_Desconocido(t *testing.T) {
	ms := []entity.Movement{{ID: "m", ProductID: "gone"}}
	report.AttachProductNames(ms, nil)
	assert.Equal(t, report.UnknownProduct, ms[0].ProductName)
}
