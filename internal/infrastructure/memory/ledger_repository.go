package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
)

var (
	_ repository.EntryRepository = (*EntryRepo)(nil)
	_ repository.ExitRepository  = (*ExitRepo)(nil)
)

// EntryRepo entradas en memoria.
type EntryRepo struct {
	access accessor
}

func (r *EntryRepo) Create(_ context.Context, entry *entity.Entry) error {
	return r.access(func(t *tables) error {
		if _, ok := t.products[entry.ProductID]; !ok {
			return fmt.Errorf("%w: produto %s", domain.ErrNotFound, entry.ProductID)
		}
		if _, ok := t.entries[entry.ID]; ok {
			return domain.ErrDuplicate
		}
		t.entries[entry.ID] = *entry
		return nil
	})
}

func (r *EntryRepo) GetByID(_ context.Context, id string) (*entity.Entry, error) {
	var out *entity.Entry
	err := r.access(func(t *tables) error {
		if e, ok := t.entries[id]; ok {
			out = &e
		}
		return nil
	})
	return out, err
}

func (r *EntryRepo) Update(_ context.Context, entry *entity.Entry) error {
	return r.access(func(t *tables) error {
		if _, ok := t.entries[entry.ID]; !ok {
			return fmt.Errorf("%w: entrada %s", domain.ErrNotFound, entry.ID)
		}
		t.entries[entry.ID] = *entry
		return nil
	})
}

func (r *EntryRepo) Delete(_ context.Context, id string) error {
	return r.access(func(t *tables) error {
		if _, ok := t.entries[id]; !ok {
			return fmt.Errorf("%w: entrada %s", domain.ErrNotFound, id)
		}
		delete(t.entries, id)
		return nil
	})
}

// List devuelve las entradas de la más reciente a la más antigua.
func (r *EntryRepo) List(_ context.Context) ([]*entity.Entry, error) {
	var out []*entity.Entry
	err := r.access(func(t *tables) error {
		out = make([]*entity.Entry, 0, len(t.entries))
		for _, e := range t.entries {
			e := e
			out = append(out, &e)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return newerRecord(out[i].LedgerRecord, out[j].LedgerRecord) })
	return out, err
}

// ExitRepo salidas en memoria.
type ExitRepo struct {
	access accessor
}

func (r *ExitRepo) Create(_ context.Context, exit *entity.Exit) error {
	return r.access(func(t *tables) error {
		if _, ok := t.products[exit.ProductID]; !ok {
			return fmt.Errorf("%w: produto %s", domain.ErrNotFound, exit.ProductID)
		}
		if _, ok := t.exits[exit.ID]; ok {
			return domain.ErrDuplicate
		}
		t.exits[exit.ID] = *exit
		return nil
	})
}

func (r *ExitRepo) GetByID(_ context.Context, id string) (*entity.Exit, error) {
	var out *entity.Exit
	err := r.access(func(t *tables) error {
		if e, ok := t.exits[id]; ok {
			out = &e
		}
		return nil
	})
	return out, err
}

func (r *ExitRepo) Update(_ context.Context, exit *entity.Exit) error {
	return r.access(func(t *tables) error {
		if _, ok := t.exits[exit.ID]; !ok {
			return fmt.Errorf("%w: saída %s", domain.ErrNotFound, exit.ID)
		}
		t.exits[exit.ID] = *exit
		return nil
	})
}

func (r *ExitRepo) Delete(_ context.Context, id string) error {
	return r.access(func(t *tables) error {
		if _, ok := t.exits[id]; !ok {
			return fmt.Errorf("%w: saída %s", domain.ErrNotFound, id)
		}
		delete(t.exits, id)
		return nil
	})
}

// List devuelve las salidas de la más reciente a la más antigua.
func (r *ExitRepo) List(_ context.Context) ([]*entity.Exit, error) {
	var out []*entity.Exit
	err := r.access(func(t *tables) error {
		out = make([]*entity.Exit, 0, len(t.exits))
		for _, e := range t.exits {
			e := e
			out = append(out, &e)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return newerRecord(out[i].LedgerRecord, out[j].LedgerRecord) })
	return out, err
}

// newerRecord orden date desc, created_at desc, id.
func newerRecord(a, b entity.LedgerRecord) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}
