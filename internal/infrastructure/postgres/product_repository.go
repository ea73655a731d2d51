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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, unit, quantity, min_stock, category, opening_quantity, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Unit, p.Quantity, p.MinStock, p.Category, p.OpeningQuantity, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.NewStoreError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, domain.NewStoreError("get product", err)
	}
	return p, nil
}

// Update reescribe los campos descriptivos; quantity y opening_quantity solo cambian por
// AdjustQuantity o SetQuantity.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, unit = $3, min_stock = $4, category = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Unit, p.MinStock, p.Category, p.UpdatedAt)
	if err != nil {
		if isInvalidID(err) {
			return fmt.Errorf("%w: produto %s", domain.ErrNotFound, p.ID)
		}
		return domain.NewStoreError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: produto %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

// SetQuantity corrige quantity. Las expresiones del SET leen la fila vigente, así que la
// apertura absorbe la diferencia contra lo que haya confirmado el libro hasta ese momento.
func (r *ProductRepo) SetQuantity(ctx context.Context, id string, quantity int) (*entity.Product, error) {
	query := `
		UPDATE products SET opening_quantity = opening_quantity + ($2 - quantity), quantity = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
		}
		return nil, domain.NewStoreError("set product quantity", err)
	}
	return p, nil
}

// AdjustQuantity suma delta en una única sentencia; la condición del WHERE impide que
// quantity quede negativa aunque dos transacciones ajusten el mismo producto a la vez.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, id string, delta int) (int, error) {
	var quantity int
	err := r.q.QueryRow(ctx, `
		UPDATE products SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING quantity`, id, delta,
	).Scan(&quantity)
	if err == nil {
		return quantity, nil
	}
	if isInvalidID(err) {
		return 0, fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.NewStoreError("adjust product quantity", err)
	}

	// Ninguna fila: o no existe o el ajuste dejaría stock negativo.
	err = r.q.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1`, id).Scan(&quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return 0, domain.NewStoreError("get product quantity", err)
	}
	return quantity, fmt.Errorf("%w: disponível %d, ajuste %d", domain.ErrInsufficientStock, quantity, delta)
}

// List lista todos los productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, id`)
	if err != nil {
		return nil, domain.NewStoreError("list products", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.NewStoreError("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list products", err)
	}
	return list, nil
}

// Delete elimina un producto; entradas y salidas caen por ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
		}
		return domain.NewStoreError("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Unit, &p.Quantity, &p.MinStock, &p.Category,
		&p.OpeningQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
