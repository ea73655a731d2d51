// Package export implementa los formatos de archivo del reporte de movimientos.
package export

import (
	"time"

	"github.com/jhoicas/estoque-escolar/internal/application/report"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

const dateLayout = "02/01/2006"

// typeLabel etiqueta mostrada para el tipo de movimiento.
func typeLabel(t string) string {
	if t == entity.MovementTypeExit {
		return "Saída"
	}
	return "Entrada"
}

// periodLabel describe el rango del filtro; vacío significa sin límite.
func periodLabel(f report.Filter) string {
	format := func(t time.Time, def string) string {
		if t.IsZero() {
			return def
		}
		return t.Format(dateLayout)
	}
	return "Período: " + format(f.Start, "início") + " a " + format(f.End, "hoje")
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
