package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
)

var (
	_ repository.EntryRepository = (*EntryRepo)(nil)
	_ repository.ExitRepository  = (*ExitRepo)(nil)
)

// ledgerTable acceso común a entries y exits, que comparten columnas.
type ledgerTable struct {
	q     Querier
	table string
	label string // para mensajes de error
}

const ledgerColumns = `id, product_id, quantity, date, employee, created_at, updated_at`

func (t ledgerTable) create(ctx context.Context, rec entity.LedgerRecord) error {
	query := `INSERT INTO ` + t.table + ` (` + ledgerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := t.q.Exec(ctx, query,
		rec.ID, rec.ProductID, rec.Quantity, rec.Date, rec.Employee, rec.CreatedAt, rec.UpdatedAt,
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err), isInvalidID(err):
		return fmt.Errorf("%w: produto %s", domain.ErrNotFound, rec.ProductID)
	default:
		return domain.NewStoreError("insert "+t.label, err)
	}
}

func (t ledgerTable) get(ctx context.Context, id string) (*entity.LedgerRecord, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ` + t.table + ` WHERE id = $1`
	rec, err := scanLedger(t.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, domain.NewStoreError("get "+t.label, err)
	}
	return rec, nil
}

func (t ledgerTable) update(ctx context.Context, rec entity.LedgerRecord) error {
	query := `UPDATE ` + t.table + ` SET product_id = $2, quantity = $3, date = $4, updated_at = $5 WHERE id = $1`
	cmd, err := t.q.Exec(ctx, query, rec.ID, rec.ProductID, rec.Quantity, rec.Date, rec.UpdatedAt)
	switch {
	case err == nil:
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: produto %s", domain.ErrNotFound, rec.ProductID)
	case isInvalidID(err):
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, t.label, rec.ID)
	default:
		return domain.NewStoreError("update "+t.label, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, t.label, rec.ID)
	}
	return nil
}

func (t ledgerTable) delete(ctx context.Context, id string) error {
	cmd, err := t.q.Exec(ctx, `DELETE FROM `+t.table+` WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return fmt.Errorf("%w: %s %s", domain.ErrNotFound, t.label, id)
		}
		return domain.NewStoreError("delete "+t.label, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, t.label, id)
	}
	return nil
}

func (t ledgerTable) list(ctx context.Context) ([]entity.LedgerRecord, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ` + t.table + ` ORDER BY date DESC, created_at DESC, id`
	rows, err := t.q.Query(ctx, query)
	if err != nil {
		return nil, domain.NewStoreError("list "+t.label, err)
	}
	defer rows.Close()

	var out []entity.LedgerRecord
	for rows.Next() {
		rec, err := scanLedger(rows)
		if err != nil {
			return nil, domain.NewStoreError("scan "+t.label, err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list "+t.label, err)
	}
	return out, nil
}

func scanLedger(row pgx.Row) (*entity.LedgerRecord, error) {
	var rec entity.LedgerRecord
	if err := row.Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.Date, &rec.Employee, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// EntryRepo entradas de stock sobre PostgreSQL.
type EntryRepo struct {
	t ledgerTable
}

// NewEntryRepository construye el repositorio de entradas (pool o tx).
func NewEntryRepository(q Querier) *EntryRepo {
	return &EntryRepo{t: ledgerTable{q: q, table: "entries", label: "entry"}}
}

func (r *EntryRepo) Create(ctx context.Context, e *entity.Entry) error {
	return r.t.create(ctx, e.LedgerRecord)
}

func (r *EntryRepo) GetByID(ctx context.Context, id string) (*entity.Entry, error) {
	rec, err := r.t.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return &entity.Entry{LedgerRecord: *rec}, nil
}

func (r *EntryRepo) Update(ctx context.Context, e *entity.Entry) error {
	return r.t.update(ctx, e.LedgerRecord)
}

func (r *EntryRepo) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

func (r *EntryRepo) List(ctx context.Context) ([]*entity.Entry, error) {
	recs, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Entry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &entity.Entry{LedgerRecord: rec})
	}
	return out, nil
}

// ExitRepo salidas de stock sobre PostgreSQL.
type ExitRepo struct {
	t ledgerTable
}

// NewExitRepository construye el repositorio de salidas (pool o tx).
func NewExitRepository(q Querier) *ExitRepo {
	return &ExitRepo{t: ledgerTable{q: q, table: "exits", label: "exit"}}
}

func (r *ExitRepo) Create(ctx context.Context, x *entity.Exit) error {
	return r.t.create(ctx, x.LedgerRecord)
}

func (r *ExitRepo) GetByID(ctx context.Context, id string) (*entity.Exit, error) {
	rec, err := r.t.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return &entity.Exit{LedgerRecord: *rec}, nil
}

func (r *ExitRepo) Update(ctx context.Context, x *entity.Exit) error {
	return r.t.update(ctx, x.LedgerRecord)
}

func (r *ExitRepo) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

func (r *ExitRepo) List(ctx context.Context) ([]*entity.Exit, error) {
	recs, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Exit, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &entity.Exit{LedgerRecord: rec})
	}
	return out, nil
}
