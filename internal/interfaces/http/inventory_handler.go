package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/application/inventory"
	"github.com/jhoicas/estoque-escolar/internal/application/report"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

// InventoryHandler entradas y salidas del libro (protegido).
// Las escrituras pasan por la conciliación; los listados por el servicio de reportes.
type InventoryHandler struct {
	uc      *inventory.ReconciliationUseCase
	reports *report.Service
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.ReconciliationUseCase, reports *report.Service) *InventoryHandler {
	return &InventoryHandler{uc: uc, reports: reports}
}

// ── Entradas ──────────────────────────────────────────────────────────────────

// ListEntries godoc
// @Summary      Historial de entradas
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.LedgerResponse]
// @Router       /api/entries [get]
func (h *InventoryHandler) ListEntries(c *fiber.Ctx) error {
	entries, err := h.reports.Entries(c.Context(), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.LedgerResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toLedgerResponse(e.LedgerRecord))
	}
	return c.JSON(dto.NewList(items))
}

// RecordEntry godoc
// @Summary      Registrar entrada de stock
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, quantity, date (opcional)"
// @Success      201   {object}  dto.LedgerActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/entries [post]
func (h *InventoryHandler) RecordEntry(c *fiber.Ctx) error {
	in, err := parseRecord(c)
	if err != nil {
		return errorWithMessage(c, err, "Por favor, selecione um produto e insira uma quantidade válida.")
	}
	entry, err := h.uc.RecordEntry(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LedgerActionResponse{
		Message: "Entrada de estoque registrada com sucesso!",
		Record:  toLedgerResponse(entry.LedgerRecord),
	})
}

// EditEntry godoc
// @Summary      Editar entrada
// @Description  Ajusta el stock por la diferencia; si cambia el producto mueve la cantidad entre ambos.
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la entrada"
// @Param        body  body  dto.EditMovementRequest  true  "Nuevos valores"
// @Success      200   {object}  dto.LedgerActionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [put]
func (h *InventoryHandler) EditEntry(c *fiber.Ctx) error {
	in, err := parseEdit(c)
	if err != nil {
		return writeError(c, err)
	}
	entry, err := h.uc.EditEntry(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		if isForbidden(err) {
			return errorWithMessage(c, err, "Você não tem permissão para editar entradas.")
		}
		return writeError(c, err)
	}
	return c.JSON(dto.LedgerActionResponse{
		Message: "Entrada atualizada com sucesso!",
		Record:  toLedgerResponse(entry.LedgerRecord),
	})
}

// DeleteEntry godoc
// @Summary      Eliminar entrada
// @Description  Descuenta la cantidad del producto. Requiere confirm=true.
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true  "ID de la entrada"
// @Param        confirm  query  bool    true  "Confirmación explícita"
// @Success      200  {object}  dto.MessageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [delete]
func (h *InventoryHandler) DeleteEntry(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return confirmationRequired(c, "Tem certeza que deseja excluir esta entrada? O estoque será ajustado.")
	}
	if err := h.uc.DeleteEntry(c.Context(), actor(c), c.Params("id")); err != nil {
		if isForbidden(err) {
			return errorWithMessage(c, err, "Você não tem permissão para excluir entradas.")
		}
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Entrada excluída e estoque ajustado com sucesso!"})
}

// ── Salidas ───────────────────────────────────────────────────────────────────

// ListExits godoc
// @Summary      Historial de salidas
// @Tags         exits
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.LedgerResponse]
// @Router       /api/exits [get]
func (h *InventoryHandler) ListExits(c *fiber.Ctx) error {
	exits, err := h.reports.Exits(c.Context(), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.LedgerResponse, 0, len(exits))
	for _, e := range exits {
		items = append(items, toLedgerResponse(e.LedgerRecord))
	}
	return c.JSON(dto.NewList(items))
}

// RecordExit godoc
// @Summary      Registrar salida de stock
// @Tags         exits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, quantity, date (opcional)"
// @Success      201   {object}  dto.LedgerActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/exits [post]
func (h *InventoryHandler) RecordExit(c *fiber.Ctx) error {
	in, err := parseRecord(c)
	if err != nil {
		return errorWithMessage(c, err, "Por favor, selecione um produto e insira uma quantidade válida.")
	}
	exit, err := h.uc.RecordExit(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LedgerActionResponse{
		Message: "Saída de estoque registrada com sucesso!",
		Record:  toLedgerResponse(exit.LedgerRecord),
	})
}

// EditExit godoc
// @Summary      Editar salida
// @Tags         exits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la salida"
// @Param        body  body  dto.EditMovementRequest  true  "Nuevos valores"
// @Success      200   {object}  dto.LedgerActionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/exits/{id} [put]
func (h *InventoryHandler) EditExit(c *fiber.Ctx) error {
	in, err := parseEdit(c)
	if err != nil {
		return writeError(c, err)
	}
	exit, err := h.uc.EditExit(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		if isForbidden(err) {
			return errorWithMessage(c, err, "Você não tem permissão para editar saídas.")
		}
		return writeError(c, err)
	}
	return c.JSON(dto.LedgerActionResponse{
		Message: "Saída atualizada com sucesso!",
		Record:  toLedgerResponse(exit.LedgerRecord),
	})
}

// DeleteExit godoc
// @Summary      Eliminar salida
// @Description  Devuelve la cantidad al producto. Requiere confirm=true.
// @Tags         exits
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true  "ID de la salida"
// @Param        confirm  query  bool    true  "Confirmación explícita"
// @Success      200  {object}  dto.MessageResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/exits/{id} [delete]
func (h *InventoryHandler) DeleteExit(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return confirmationRequired(c, "Tem certeza que deseja excluir esta saída? O estoque será ajustado.")
	}
	if err := h.uc.DeleteExit(c.Context(), actor(c), c.Params("id")); err != nil {
		if isForbidden(err) {
			return errorWithMessage(c, err, "Você não tem permissão para excluir saídas.")
		}
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Saída excluída e estoque ajustado com sucesso!"})
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func parseRecord(c *fiber.Ctx) (inventory.RecordInput, error) {
	var req dto.RecordMovementRequest
	if err := parseBody(c, &req); err != nil {
		return inventory.RecordInput{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return inventory.RecordInput{}, err
	}
	return inventory.RecordInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Date:      date,
		Employee:  req.Employee,
	}, nil
}

func parseEdit(c *fiber.Ctx) (inventory.EditInput, error) {
	var req dto.EditMovementRequest
	if err := parseBody(c, &req); err != nil {
		return inventory.EditInput{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return inventory.EditInput{}, err
	}
	return inventory.EditInput{
		Quantity:  req.Quantity,
		Date:      date,
		ProductID: req.ProductID,
	}, nil
}

// parseDate interpreta YYYY-MM-DD en UTC; vacío devuelve la fecha cero.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dto.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, domain.Validationf("data inválida: %q", s)
	}
	return t, nil
}

func toLedgerResponse(r entity.LedgerRecord) dto.LedgerResponse {
	return dto.LedgerResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Date:      r.Date.Format(dto.DateLayout),
		Employee:  r.Employee,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
