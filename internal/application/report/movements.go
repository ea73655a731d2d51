// Package report contiene el motor de consultas del libro (movimientos filtrados y
// alertas de stock bajo) y la exportación de reportes.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

// Tipos de filtro.
const (
	TypeAll   = "all"
	TypeEntry = entity.MovementTypeEntry
	TypeExit  = entity.MovementTypeExit
)

// UnknownProduct nombre mostrado cuando el producto del movimiento ya no existe.
const UnknownProduct = "Produto Desconhecido"

// Filter criterios conjuntivos del reporte. Los campos vacíos no filtran.
// Start incluye desde las 00:00 de su día; End incluye hasta el último instante de su día.
type Filter struct {
	Type      string
	ProductID string
	Start     time.Time
	End       time.Time
}

// Validate verifica el tipo y que el rango no esté invertido.
func (f Filter) Validate() error {
	switch strings.ToLower(f.Type) {
	case "", TypeAll, TypeEntry, TypeExit:
	default:
		return domain.Validationf("tipo de movimentação inválido: %q", f.Type)
	}
	if !f.Start.IsZero() && !f.End.IsZero() && startOfDay(f.Start).After(startOfDay(f.End)) {
		return domain.Validationf("data inicial posterior à data final")
	}
	return nil
}

func (f Filter) includes(m entity.Movement) bool {
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if !f.Start.IsZero() && m.Date.Before(startOfDay(f.Start)) {
		return false
	}
	if !f.End.IsZero() && m.Date.After(endOfDay(f.End)) {
		return false
	}
	return true
}

// BuildMovements une entradas y salidas como movimientos, aplica el filtro y ordena por
// fecha descendente (desempate: created_at descendente, luego id). No tiene efectos.
func BuildMovements(entries []*entity.Entry, exits []*entity.Exit, f Filter) []entity.Movement {
	typ := strings.ToLower(f.Type)
	out := make([]entity.Movement, 0, len(entries)+len(exits))

	if typ == "" || typ == TypeAll || typ == TypeEntry {
		for _, e := range entries {
			if m := toMovement(entity.MovementTypeEntry, e.LedgerRecord); f.includes(m) {
				out = append(out, m)
			}
		}
	}
	if typ == "" || typ == TypeAll || typ == TypeExit {
		for _, x := range exits {
			if m := toMovement(entity.MovementTypeExit, x.LedgerRecord); f.includes(m) {
				out = append(out, m)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// AttachProductNames completa ProductName de cada movimiento.
func AttachProductNames(movements []entity.Movement, products []*entity.Product) {
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	for i := range movements {
		if name, ok := names[movements[i].ProductID]; ok {
			movements[i].ProductName = name
		} else {
			movements[i].ProductName = UnknownProduct
		}
	}
}

// Totals suma las cantidades de entradas y salidas.
func Totals(movements []entity.Movement) (in, out int) {
	for _, m := range movements {
		if m.Type == entity.MovementTypeExit {
			out += m.Quantity
		} else {
			in += m.Quantity
		}
	}
	return in, out
}

// LowStock devuelve los productos con quantity <= min_stock, en el orden recibido.
func LowStock(products []*entity.Product) []*entity.Product {
	out := make([]*entity.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}

func toMovement(typ string, r entity.LedgerRecord) entity.Movement {
	return entity.Movement{
		Type:      typ,
		ID:        r.ID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Date:      r.Date,
		Employee:  r.Employee,
		CreatedAt: r.CreatedAt,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
