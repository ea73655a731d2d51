package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/access"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	stock "github.com/jhoicas/estoque-escolar/internal/domain/inventory"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
	"github.com/jhoicas/estoque-escolar/pkg/metrics"
)

// Nombres de operación para logs y métricas.
const (
	OpRecordEntry = "record_entry"
	OpRecordExit  = "record_exit"
	OpEditEntry   = "edit_entry"
	OpEditExit    = "edit_exit"
	OpDeleteEntry = "delete_entry"
	OpDeleteExit  = "delete_exit"
)

// ReconciliationUseCase mantiene products.quantity consistente con el libro de entradas y salidas.
// Cada operación corre en una única transacción y ajusta el stock con un delta atómico.
type ReconciliationUseCase struct {
	txRunner TxRunner
	notifier notify.Publisher
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() string
}

// Option configura el caso de uso (reloj e ids en tests).
type Option func(*ReconciliationUseCase)

// WithClock reemplaza time.Now.
func WithClock(now func() time.Time) Option {
	return func(uc *ReconciliationUseCase) { uc.now = now }
}

// WithIDGenerator reemplaza uuid.NewString.
func WithIDGenerator(newID func() string) Option {
	return func(uc *ReconciliationUseCase) { uc.newID = newID }
}

// NewReconciliationUseCase construye el caso de uso. notifier, log y m pueden ser nil.
func NewReconciliationUseCase(
	txRunner TxRunner,
	notifier notify.Publisher,
	log *logger.Logger,
	m *metrics.Metrics,
	opts ...Option,
) *ReconciliationUseCase {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	uc := &ReconciliationUseCase{
		txRunner: txRunner,
		notifier: notifier,
		log:      log.Component("reconciliation"),
		metrics:  m,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// RecordInput datos de un movimiento nuevo. Date cero = hoy; Employee vacío = email del actor.
type RecordInput struct {
	ProductID string
	Quantity  int
	Date      time.Time
	Employee  string
}

// EditInput nuevos valores de un movimiento. Date cero conserva la fecha; ProductID vacío
// conserva el producto.
type EditInput struct {
	Quantity  int
	Date      time.Time
	ProductID string
}

// RecordEntry suma Quantity al producto e inserta la entrada.
func (uc *ReconciliationUseCase) RecordEntry(ctx context.Context, actor entity.Profile, in RecordInput) (*entity.Entry, error) {
	if err := uc.checkRecord(actor, in); err != nil {
		return nil, uc.fail(OpRecordEntry, err)
	}
	entry := &entity.Entry{LedgerRecord: uc.newRecord(actor, in)}

	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, entries repository.EntryRepository, _ repository.ExitRepository) error {
		adj := stock.RecordAdjustments(entry.ProductID, stock.EntryEffect(entry.Quantity))
		if err := applyAdjustments(ctx, products, adj); err != nil {
			return err
		}
		return entries.Create(ctx, entry)
	})
	if err != nil {
		return nil, uc.fail(OpRecordEntry, err)
	}
	uc.succeed(ctx, OpRecordEntry, notify.TableEntries)
	return entry, nil
}

// RecordExit resta Quantity del producto e inserta la salida. Sin stock suficiente no escribe nada.
func (uc *ReconciliationUseCase) RecordExit(ctx context.Context, actor entity.Profile, in RecordInput) (*entity.Exit, error) {
	if err := uc.checkRecord(actor, in); err != nil {
		return nil, uc.fail(OpRecordExit, err)
	}
	exit := &entity.Exit{LedgerRecord: uc.newRecord(actor, in)}

	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, _ repository.EntryRepository, exits repository.ExitRepository) error {
		adj := stock.RecordAdjustments(exit.ProductID, stock.ExitEffect(exit.Quantity))
		if err := applyAdjustments(ctx, products, adj); err != nil {
			return err
		}
		return exits.Create(ctx, exit)
	})
	if err != nil {
		return nil, uc.fail(OpRecordExit, err)
	}
	uc.succeed(ctx, OpRecordExit, notify.TableExits)
	return exit, nil
}

// EditEntry reemplaza cantidad, fecha y/o producto de una entrada ajustando el stock por la diferencia.
// Si el ajuste dejara stock negativo devuelve un error que cumple ErrValidation y ErrInsufficientStock.
func (uc *ReconciliationUseCase) EditEntry(ctx context.Context, actor entity.Profile, id string, in EditInput) (*entity.Entry, error) {
	if err := uc.checkEdit(actor, in); err != nil {
		return nil, uc.fail(OpEditEntry, err)
	}
	var updated *entity.Entry

	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, entries repository.EntryRepository, _ repository.ExitRepository) error {
		current, err := entries.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: entrada %s", domain.ErrNotFound, id)
		}
		next := *current
		uc.applyEdit(&next.LedgerRecord, in)

		adj := stock.EditAdjustments(
			current.ProductID, stock.EntryEffect(current.Quantity),
			next.ProductID, stock.EntryEffect(next.Quantity),
		)
		if err := applyAdjustments(ctx, products, adj); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return fmt.Errorf("%w: %w", domain.ErrValidation, err)
			}
			return err
		}
		if err := entries.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, uc.fail(OpEditEntry, err)
	}
	uc.succeed(ctx, OpEditEntry, notify.TableEntries)
	return updated, nil
}

// EditExit reemplaza cantidad, fecha y/o producto de una salida ajustando el stock por la diferencia.
func (uc *ReconciliationUseCase) EditExit(ctx context.Context, actor entity.Profile, id string, in EditInput) (*entity.Exit, error) {
	if err := uc.checkEdit(actor, in); err != nil {
		return nil, uc.fail(OpEditExit, err)
	}
	var updated *entity.Exit

	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, _ repository.EntryRepository, exits repository.ExitRepository) error {
		current, err := exits.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: saída %s", domain.ErrNotFound, id)
		}
		next := *current
		uc.applyEdit(&next.LedgerRecord, in)

		adj := stock.EditAdjustments(
			current.ProductID, stock.ExitEffect(current.Quantity),
			next.ProductID, stock.ExitEffect(next.Quantity),
		)
		if err := applyAdjustments(ctx, products, adj); err != nil {
			return err
		}
		if err := exits.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, uc.fail(OpEditExit, err)
	}
	uc.succeed(ctx, OpEditExit, notify.TableExits)
	return updated, nil
}

// DeleteEntry elimina la entrada y descuenta su cantidad del producto.
// Si el producto ya no tiene esas unidades devuelve ErrInsufficientStock y no borra nada.
func (uc *ReconciliationUseCase) DeleteEntry(ctx context.Context, actor entity.Profile, id string) error {
	if err := access.Authorize(actor, access.LedgerAmend); err != nil {
		return uc.fail(OpDeleteEntry, err)
	}
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, entries repository.EntryRepository, _ repository.ExitRepository) error {
		current, err := entries.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: entrada %s", domain.ErrNotFound, id)
		}
		adj := stock.RevertAdjustments(current.ProductID, stock.EntryEffect(current.Quantity))
		if err := applyAdjustments(ctx, products, adj); err != nil {
			return err
		}
		return entries.Delete(ctx, id)
	})
	if err != nil {
		return uc.fail(OpDeleteEntry, err)
	}
	uc.succeed(ctx, OpDeleteEntry, notify.TableEntries)
	return nil
}

// DeleteExit elimina la salida y devuelve su cantidad al producto.
func (uc *ReconciliationUseCase) DeleteExit(ctx context.Context, actor entity.Profile, id string) error {
	if err := access.Authorize(actor, access.LedgerAmend); err != nil {
		return uc.fail(OpDeleteExit, err)
	}
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, _ repository.EntryRepository, exits repository.ExitRepository) error {
		current, err := exits.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: saída %s", domain.ErrNotFound, id)
		}
		adj := stock.RevertAdjustments(current.ProductID, stock.ExitEffect(current.Quantity))
		if err := applyAdjustments(ctx, products, adj); err != nil {
			return err
		}
		return exits.Delete(ctx, id)
	})
	if err != nil {
		return uc.fail(OpDeleteExit, err)
	}
	uc.succeed(ctx, OpDeleteExit, notify.TableExits)
	return nil
}

// applyAdjustments aplica los deltas en orden. Un producto inexistente es un dato de entrada
// inválido: el error cumple ErrValidation y ErrNotFound.
func applyAdjustments(ctx context.Context, products repository.ProductRepository, adjustments []stock.Adjustment) error {
	for _, a := range adjustments {
		if _, err := products.AdjustQuantity(ctx, a.ProductID, a.Delta); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: %w", domain.ErrValidation, err)
			}
			return err
		}
	}
	return nil
}

func (uc *ReconciliationUseCase) checkRecord(actor entity.Profile, in RecordInput) error {
	if err := access.Authorize(actor, access.LedgerRecord); err != nil {
		return err
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return domain.Validationf("produto obrigatório")
	}
	if in.Quantity <= 0 {
		return domain.Validationf("quantidade deve ser maior que zero: %d", in.Quantity)
	}
	return nil
}

func (uc *ReconciliationUseCase) checkEdit(actor entity.Profile, in EditInput) error {
	if err := access.Authorize(actor, access.LedgerAmend); err != nil {
		return err
	}
	if in.Quantity <= 0 {
		return domain.Validationf("quantidade deve ser maior que zero: %d", in.Quantity)
	}
	return nil
}

func (uc *ReconciliationUseCase) newRecord(actor entity.Profile, in RecordInput) entity.LedgerRecord {
	now := uc.now().UTC()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	employee := strings.TrimSpace(in.Employee)
	if employee == "" {
		employee = actor.Email
	}
	if employee == "" {
		employee = actor.ID
	}
	return entity.LedgerRecord{
		ID:        uc.newID(),
		ProductID: strings.TrimSpace(in.ProductID),
		Quantity:  in.Quantity,
		Date:      DateOnly(date),
		Employee:  employee,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (uc *ReconciliationUseCase) applyEdit(rec *entity.LedgerRecord, in EditInput) {
	rec.Quantity = in.Quantity
	if !in.Date.IsZero() {
		rec.Date = DateOnly(in.Date)
	}
	if pid := strings.TrimSpace(in.ProductID); pid != "" {
		rec.ProductID = pid
	}
	rec.UpdatedAt = uc.now().UTC()
}

// succeed registra la métrica y publica products y la tabla del libro. Un fallo al publicar
// no revierte nada: la transacción ya está confirmada.
func (uc *ReconciliationUseCase) succeed(ctx context.Context, op, ledgerTable string) {
	uc.metrics.StockOperation(op, "ok")
	uc.log.Info().Str("op", op).Msg("movimiento de stock aplicado")
	for _, table := range []string{notify.TableProducts, ledgerTable} {
		if err := uc.notifier.Publish(ctx, table); err != nil {
			uc.log.Warn().Err(err).Str("op", op).Str("table", table).Msg("no se pudo publicar el cambio")
		}
	}
}

func (uc *ReconciliationUseCase) fail(op string, err error) error {
	result := ResultOf(err)
	uc.metrics.StockOperation(op, result)
	if result == "error" {
		uc.log.Error().Err(err).Str("op", op).Msg("fallo en operación de stock")
	} else {
		uc.log.Warn().Err(err).Str("op", op).Str("result", result).Msg("operación de stock rechazada")
	}
	return err
}

// ResultOf clasifica un error para la etiqueta result de las métricas.
func ResultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrPermission):
		return "denied"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// DateOnly trunca t a medianoche UTC del mismo día calendario.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
