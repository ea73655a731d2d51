package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	stock "github.com/jhoicas/estoque-escolar/internal/domain/inventory"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	access accessor
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.access(func(t *tables) error {
		if _, ok := t.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		t.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.access(func(t *tables) error {
		if p, ok := t.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// Update reescribe los campos descriptivos y conserva quantity y opening_quantity.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.access(func(t *tables) error {
		current, ok := t.products[product.ID]
		if !ok {
			return fmt.Errorf("%w: produto %s", domain.ErrNotFound, product.ID)
		}
		current.Name = product.Name
		current.Unit = product.Unit
		current.MinStock = product.MinStock
		current.Category = product.Category
		current.UpdatedAt = product.UpdatedAt
		t.products[product.ID] = current
		return nil
	})
}

func (r *ProductRepo) SetQuantity(_ context.Context, id string, quantity int) (*entity.Product, error) {
	var out *entity.Product
	err := r.access(func(t *tables) error {
		p, ok := t.products[id]
		if !ok {
			return fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
		}
		p.OpeningQuantity += quantity - p.Quantity
		p.Quantity = quantity
		p.UpdatedAt = time.Now().UTC()
		t.products[id] = p
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) AdjustQuantity(_ context.Context, id string, delta int) (int, error) {
	var quantity int
	err := r.access(func(t *tables) error {
		p, ok := t.products[id]
		if !ok {
			return fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
		}
		next, err := stock.Adjust(p.Quantity, delta)
		if err != nil {
			return err
		}
		p.Quantity = next
		p.UpdatedAt = time.Now().UTC()
		t.products[id] = p
		quantity = next
		return nil
	})
	return quantity, err
}

// List devuelve los productos ordenados por nombre.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.access(func(t *tables) error {
		out = make([]*entity.Product, 0, len(t.products))
		for _, p := range t.products {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// Delete elimina el producto junto con sus entradas y salidas.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.access(func(t *tables) error {
		if _, ok := t.products[id]; !ok {
			return fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
		}
		delete(t.products, id)
		for k, e := range t.entries {
			if e.ProductID == id {
				delete(t.entries, k)
			}
		}
		for k, e := range t.exits {
			if e.ProductID == id {
				delete(t.exits, k)
			}
		}
		return nil
	})
}
