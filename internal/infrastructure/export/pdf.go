package export

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/estoque-escolar/internal/application/report"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorExit    = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Exporter ──────────────────────────────────────────────────────────────────

// PDF genera el reporte de movimientos en A4 con Maroto v2.
type PDF struct {
	// Institution aparece en la cabecera; opcional.
	Institution string
}

var _ report.Exporter = PDF{}

func (PDF) Format() string      { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }

// Export arma el documento: cabecera, tabla de movimientos y totales.
func (p PDF) Export(r report.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r, p.Institution))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(r.Movements) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New(
			"Nenhuma movimentação encontrada para os filtros informados.",
			props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray},
		))))
	}
	for _, rw := range movementRows(r.Movements) {
		m.AddRows(rw)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y período (izq), fecha de generación (der).
func headerRow(r report.Report, institution string) core.Row {
	return row.New(20).Add(
		col.New(8).Add(
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(institution, "Controle de Estoque Escolar"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New(periodLabel(r.Filter), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Gerado em", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Data", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Produto", 4, align.Left),
		h("Qtd.", 1, align.Right),
		h("Funcionário", 3, align.Left),
	)
}

// movementRows: una fila por movimiento; las salidas en rojo.
func movementRows(movements []entity.Movement) []core.Row {
	result := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		typeProps := props.Text{Size: 8, Top: 1, Left: 1}
		if mv.Type == entity.MovementTypeExit {
			typeProps.Color = colorExit
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(mv.Date.Format(dateLayout), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(typeLabel(mv.Type), typeProps)),
			col.New(4).Add(text.New(mv.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(mv.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(nonEmpty(mv.Employee, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

func totalsRow(r report.Report) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(n int, top float64) core.Component {
		return text.New(strconv.Itoa(n), props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(4).Add(
			label("Total de entradas:", 1),
			label("Total de saídas:", 6),
			label("Saldo do período:", 11),
		),
		col.New(2).Add(
			value(r.TotalIn, 1),
			value(r.TotalOut, 6),
			value(r.TotalIn-r.TotalOut, 11),
		),
	)
}
