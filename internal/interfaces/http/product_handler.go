package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return errorWithMessage(c, err, "Por favor, preencha todos os campos obrigatórios (Nome, Unidade, Quantidade, Estoque Mínimo, Categoria) e garanta que quantidades não são negativas.")
	}
	out, err := h.uc.Create(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Description  Ordenados por nombre (colación pt-BR).
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.ProductResponse]
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// Grouped godoc
// @Summary      Productos agrupados por categoría
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductGroupResponse
// @Router       /api/products/grouped [get]
func (h *ProductHandler) Grouped(c *fiber.Ctx) error {
	out, err := h.uc.Grouped(c.Context(), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []dto.ProductGroupResponse{}
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Categorías distintas (sugerencias del formulario)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[string]
// @Router       /api/products/categories [get]
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.Context(), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Irreversible: borra también sus entradas y salidas. Requiere confirm=true.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true  "ID del producto"
// @Param        confirm  query  bool    true  "Confirmación explícita"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return confirmationRequired(c, "Tem certeza que deseja excluir este produto? Esta ação é irreversível.")
	}
	if err := h.uc.Delete(c.Context(), actor(c), c.Params("id")); err != nil {
		return productError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Produto excluído com sucesso!"})
}

func productError(c *fiber.Ctx, err error) error {
	status, _ := classify(err)
	if status == fiber.StatusNotFound {
		return errorWithMessage(c, err, "Produto não encontrado.")
	}
	return writeError(c, err)
}

// confirmationRequired responde 428 sin ejecutar la acción destructiva.
func confirmationRequired(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusPreconditionRequired).JSON(dto.ErrorResponse{
		Code:    "CONFIRMATION_REQUIRED",
		Message: message,
	})
}
