package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/application/inventory"
	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/access"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
)

// ProductUseCase casos de uso CRUD para productos. Listar es para cualquier perfil activo;
// crear, editar y eliminar solo para admin.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	notifier notify.Publisher
	log      *logger.Logger
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso. txRunner protege la edición; notifier y log pueden ser nil.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner, notifier notify.Publisher, log *logger.Logger) *ProductUseCase {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{repo: repo, txRunner: txRunner, notifier: notifier, log: log.Component("products"), now: time.Now}
}

// Create crea un producto. Una cantidad inicial queda registrada como saldo de apertura.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Profile, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := access.Authorize(actor, access.ProductsWrite); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	in.Category = strings.TrimSpace(in.Category)
	if err := validateProductFields(in.Name, in.Unit, in.Category, in.Quantity, in.MinStock); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	product := &entity.Product{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Unit:            in.Unit,
		Quantity:        in.Quantity,
		MinStock:        in.MinStock,
		Category:        in.Category,
		OpeningQuantity: in.Quantity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("produto criado")
	uc.publish(ctx, notify.TableProducts)
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID; ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor entity.Profile, id string) (*dto.ProductResponse, error) {
	if err := access.Authorize(actor, access.ProductsRead); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
	}
	return ToProductResponse(product), nil
}

// Update actualiza un producto. Los campos descriptivos y la corrección de Quantity corren en
// una transacción; la corrección fija la cantidad en una sola sentencia que desplaza el saldo
// de apertura en la misma diferencia, así una entrada o salida confirmada en paralelo no se pierde.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Profile, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := access.Authorize(actor, access.ProductsWrite); err != nil {
		return nil, err
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.Validationf("quantidade e estoque mínimo não podem ser negativos")
	}
	var updated *entity.Product

	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, _ repository.EntryRepository, _ repository.ExitRepository) error {
		product, err := products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.Unit != nil {
			product.Unit = strings.TrimSpace(*in.Unit)
		}
		if in.Category != nil {
			product.Category = strings.TrimSpace(*in.Category)
		}
		if in.MinStock != nil {
			product.MinStock = *in.MinStock
		}
		if err := validateProductFields(product.Name, product.Unit, product.Category, 0, product.MinStock); err != nil {
			return err
		}
		product.UpdatedAt = uc.now().UTC()
		if err := products.Update(ctx, product); err != nil {
			return err
		}
		if in.Quantity != nil {
			if _, err := products.SetQuantity(ctx, id, *in.Quantity); err != nil {
				return err
			}
		}
		// Relee para devolver la cantidad vigente y no la de la primera lectura.
		updated, err = products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
	}
	if in.Quantity != nil {
		uc.log.Info().Str("product_id", id).Int("quantity", updated.Quantity).Msg("cantidad corregida")
	}
	uc.publish(ctx, notify.TableProducts)
	return ToProductResponse(updated), nil
}

// List lista los productos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context, actor entity.Profile) ([]dto.ProductResponse, error) {
	if err := access.Authorize(actor, access.ProductsRead); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortProducts(list)
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return items, nil
}

// Grouped agrupa los productos por categoría ("Sem Categoria" para vacías), categorías y
// productos en orden alfabético del português.
func (uc *ProductUseCase) Grouped(ctx context.Context, actor entity.Profile) ([]dto.ProductGroupResponse, error) {
	items, err := uc.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string][]dto.ProductResponse)
	for _, p := range items {
		cat := entity.Product{Category: p.Category}.CategoryOrNone()
		byCategory[cat] = append(byCategory[cat], p)
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sortStrings(categories)

	groups := make([]dto.ProductGroupResponse, 0, len(categories))
	for _, cat := range categories {
		groups = append(groups, dto.ProductGroupResponse{Category: cat, Products: byCategory[cat]})
	}
	return groups, nil
}

// Categories categorías distintas no vacías, para sugerir en el formulario.
func (uc *ProductUseCase) Categories(ctx context.Context, actor entity.Profile) ([]string, error) {
	if err := access.Authorize(actor, access.ProductsRead); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, p := range list {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	sortStrings(categories)
	return categories, nil
}

// Delete elimina un producto y, en cascada, sus entradas y salidas.
func (uc *ProductUseCase) Delete(ctx context.Context, actor entity.Profile, id string) error {
	if err := access.Authorize(actor, access.ProductsWrite); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("produto excluído")
	uc.publish(ctx, notify.TableProducts, notify.TableEntries, notify.TableExits)
	return nil
}

func (uc *ProductUseCase) publish(ctx context.Context, tables ...string) {
	for _, table := range tables {
		if err := uc.notifier.Publish(ctx, table); err != nil {
			uc.log.Warn().Err(err).Str("table", table).Msg("no se pudo publicar el cambio")
		}
	}
}

func validateProductFields(name, unit, category string, quantity, minStock int) error {
	if name == "" || unit == "" || category == "" {
		return domain.Validationf("nome, unidade e categoria são obrigatórios")
	}
	if quantity < 0 || minStock < 0 {
		return domain.Validationf("quantidade e estoque mínimo não podem ser negativos")
	}
	return nil
}

// newCollator orden alfabético pt-BR sin distinguir mayúsculas. Un Collator no es seguro
// para uso concurrente, por eso se crea por llamada.
func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
}

func sortStrings(values []string) {
	c := newCollator()
	sort.SliceStable(values, func(i, j int) bool { return c.CompareString(values[i], values[j]) < 0 })
}

func sortProducts(list []*entity.Product) {
	c := newCollator()
	sort.SliceStable(list, func(i, j int) bool {
		if cmp := c.CompareString(list[i].Name, list[j].Name); cmp != 0 {
			return cmp < 0
		}
		return list[i].ID < list[j].ID
	})
}

// ToProductResponse convierte la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Unit:      p.Unit,
		Quantity:  p.Quantity,
		MinStock:  p.MinStock,
		Category:  p.Category,
		LowStock:  p.IsLowStock(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
