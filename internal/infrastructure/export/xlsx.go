package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/estoque-escolar/internal/application/report"
)

// SheetName hoja con los movimientos.
const SheetName = "Movimentações"

var xlsxHeadings = []string{"Data", "Tipo", "Produto", "Quantidade", "Funcionário"}

// XLSX genera el reporte de movimientos como planilla Excel.
type XLSX struct{}

var _ report.Exporter = XLSX{}

func (XLSX) Format() string { return "xlsx" }
func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export escribe cabecera, una fila por movimiento y las filas de totales.
func (XLSX) Export(r report.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetName, cell, v)
	}

	for i, h := range xlsxHeadings {
		if err := set(i+1, 1, h); err != nil {
			return nil, fmt.Errorf("xlsx: cabecera: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	rowNo := 2
	for _, mv := range r.Movements {
		values := []any{mv.Date.Format(dateLayout), typeLabel(mv.Type), mv.ProductName, mv.Quantity, mv.Employee}
		for i, v := range values {
			if err := set(i+1, rowNo, v); err != nil {
				return nil, fmt.Errorf("xlsx: fila %d: %w", rowNo, err)
			}
		}
		rowNo++
	}

	// Totales debajo de la tabla, separados por una fila vacía.
	rowNo++
	totals := []struct {
		label string
		value int
	}{
		{"Total de entradas", r.TotalIn},
		{"Total de saídas", r.TotalOut},
		{"Saldo do período", r.TotalIn - r.TotalOut},
	}
	for _, t := range totals {
		if err := set(3, rowNo, t.label); err != nil {
			return nil, fmt.Errorf("xlsx: totales: %w", err)
		}
		if err := set(4, rowNo, t.value); err != nil {
			return nil, fmt.Errorf("xlsx: totales: %w", err)
		}
		rowNo++
	}

	if err := f.SetColWidth(SheetName, "C", "C", 40); err != nil {
		return nil, fmt.Errorf("xlsx: ancho: %w", err)
	}
	if err := f.SetColWidth(SheetName, "E", "E", 30); err != nil {
		return nil, fmt.Errorf("xlsx: ancho: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
