package report

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/access"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
	"github.com/jhoicas/estoque-escolar/pkg/metrics"
)

// Report datos de un reporte de movimientos listo para exportar.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Filter      Filter
	Movements   []entity.Movement
	TotalIn     int
	TotalOut    int
}

// Exporter serializa un Report a un formato de archivo.
type Exporter interface {
	Format() string // pdf, xlsx
	ContentType() string
	Export(r Report) ([]byte, error)
}

// Document archivo generado por Export.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Service consultas de solo lectura sobre productos y el libro. Cada llamada relee todo
// del store; no guarda estado entre llamadas.
type Service struct {
	products  repository.ProductRepository
	entries   repository.EntryRepository
	exits     repository.ExitRepository
	exporters map[string]Exporter
	log       *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewService construye el servicio. log y m pueden ser nil.
func NewService(
	products repository.ProductRepository,
	entries repository.EntryRepository,
	exits repository.ExitRepository,
	log *logger.Logger,
	m *metrics.Metrics,
	exporters ...Exporter,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		products:  products,
		entries:   entries,
		exits:     exits,
		exporters: make(map[string]Exporter, len(exporters)),
		log:       log.Component("report"),
		metrics:   m,
		now:       time.Now,
	}
	for _, e := range exporters {
		s.exporters[e.Format()] = e
	}
	return s
}

// Entries lista las entradas, de la más reciente a la más antigua.
func (s *Service) Entries(ctx context.Context, actor entity.Profile) ([]*entity.Entry, error) {
	if err := access.Authorize(actor, access.LedgerRead); err != nil {
		return nil, err
	}
	entries, err := s.entries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar entradas: %w", err)
	}
	return entries, nil
}

// Exits lista las salidas, de la más reciente a la más antigua.
func (s *Service) Exits(ctx context.Context, actor entity.Profile) ([]*entity.Exit, error) {
	if err := access.Authorize(actor, access.LedgerRead); err != nil {
		return nil, err
	}
	exits, err := s.exits.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar saídas: %w", err)
	}
	return exits, nil
}

// Movements devuelve el reporte filtrado con el nombre de producto de cada movimiento.
func (s *Service) Movements(ctx context.Context, actor entity.Profile, f Filter) ([]entity.Movement, error) {
	if err := access.Authorize(actor, access.LedgerRead); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	movements := BuildMovements(snap.entries, snap.exits, f)
	AttachProductNames(movements, snap.products)
	return movements, nil
}

// LowStock productos en el mínimo o por debajo, recalculado en cada llamada.
func (s *Service) LowStock(ctx context.Context, actor entity.Profile) ([]*entity.Product, error) {
	if err := access.Authorize(actor, access.LedgerRead); err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar produtos: %w", err)
	}
	low := LowStock(products)
	s.metrics.LowStock(len(low))
	return low, nil
}

// Export genera el reporte filtrado en el formato pedido (pdf | xlsx).
func (s *Service) Export(ctx context.Context, actor entity.Profile, f Filter, format string) (*Document, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, domain.Validationf("formato de exportação não suportado: %q", format)
	}
	movements, err := s.Movements(ctx, actor, f)
	if err != nil {
		return nil, err
	}
	now := s.now()
	in, out := Totals(movements)
	body, err := exporter.Export(Report{
		Title:       "Relatório de Movimentações",
		GeneratedAt: now,
		Filter:      f,
		Movements:   movements,
		TotalIn:     in,
		TotalOut:    out,
	})
	if err != nil {
		s.log.Error().Err(err).Str("format", format).Msg("fallo al exportar reporte")
		return nil, fmt.Errorf("exportar %s: %w", format, err)
	}
	s.log.Info().Str("format", format).Int("movements", len(movements)).Msg("reporte exportado")
	return &Document{
		Filename:    fmt.Sprintf("movimentacoes_%s.%s", now.Format("20060102_150405"), format),
		ContentType: exporter.ContentType(),
		Body:        body,
	}, nil
}

type snapshot struct {
	products []*entity.Product
	entries  []*entity.Entry
	exits    []*entity.Exit
}

// load lee las tres colecciones en paralelo.
func (s *Service) load(ctx context.Context) (snapshot, error) {
	var snap snapshot
	var productsErr, entriesErr, exitsErr error
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		snap.products, productsErr = s.products.List(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.entries, entriesErr = s.entries.List(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.exits, exitsErr = s.exits.List(ctx)
	}()
	wg.Wait()

	switch {
	case productsErr != nil:
		return snapshot{}, fmt.Errorf("listar produtos: %w", productsErr)
	case entriesErr != nil:
		return snapshot{}, fmt.Errorf("listar entradas: %w", entriesErr)
	case exitsErr != nil:
		return snapshot{}, fmt.Errorf("listar saídas: %w", exitsErr)
	}
	return snap, nil
}
