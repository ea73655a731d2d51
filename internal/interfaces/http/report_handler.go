package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/application/report"
	"github.com/jhoicas/estoque-escolar/internal/application/usecase"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

// ReportHandler alertas de stock bajo y reporte de movimientos (protegido).
type ReportHandler struct {
	svc *report.Service
}

// NewReportHandler construye el handler.
func NewReportHandler(svc *report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// LowStock godoc
// @Summary      Productos con stock en el mínimo o por debajo
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.ProductResponse]
// @Router       /api/alerts/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.svc.LowStock(c.Context(), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *usecase.ToProductResponse(p))
	}
	return c.JSON(dto.NewList(items))
}

// Movements godoc
// @Summary      Reporte de movimientos
// @Description  Entradas y salidas filtradas, de la más reciente a la más antigua.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "all | entry | exit"
// @Param        product_id  query  string  false  "ID del producto"
// @Param        start_date  query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.MovementReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	f, _, err := parseFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	movements, err := h.svc.Movements(c.Context(), actor(c), f)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	in, out := report.Totals(movements)
	return c.JSON(dto.MovementReportResponse{
		Items:    items,
		Total:    len(items),
		TotalIn:  in,
		TotalOut: out,
	})
}

// Export godoc
// @Summary      Exportar reporte de movimientos
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format      query  string  false  "pdf | xlsx"  default(pdf)
// @Param        type        query  string  false  "all | entry | exit"
// @Param        product_id  query  string  false  "ID del producto"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	f, format, err := parseFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	if format == "" {
		format = "pdf"
	}
	doc, err := h.svc.Export(c.Context(), actor(c), f, format)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(doc.Filename)
	c.Set(fiber.HeaderContentType, doc.ContentType)
	return c.Send(doc.Body)
}

func parseFilter(c *fiber.Ctx) (report.Filter, string, error) {
	var q dto.MovementFilterQuery
	if err := parseQuery(c, &q); err != nil {
		return report.Filter{}, "", err
	}
	start, err := parseDate(q.StartDate)
	if err != nil {
		return report.Filter{}, "", err
	}
	end, err := parseDate(q.EndDate)
	if err != nil {
		return report.Filter{}, "", err
	}
	return report.Filter{
		Type:      q.Type,
		ProductID: q.ProductID,
		Start:     start,
		End:       end,
	}, q.Format, nil
}

func toMovementResponse(m entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		Type:        m.Type,
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		Date:        m.Date.Format(dto.DateLayout),
		Employee:    m.Employee,
	}
}
