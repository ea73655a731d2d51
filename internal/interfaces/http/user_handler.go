package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/application/usecase"
	"github.com/jhoicas/estoque-escolar/internal/domain/access"
)

// UserHandler gestión de perfiles (solo admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.ProfileResponse]
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// ToggleActive godoc
// @Summary      Activar o desactivar usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.ProfileActionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/active [patch]
func (h *UserHandler) ToggleActive(c *fiber.Ctx) error {
	out, err := h.uc.ToggleActive(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, access.ErrSelfChange):
			return errorWithMessage(c, err, "Você não pode desativar sua própria conta.")
		case isForbidden(err):
			return errorWithMessage(c, err, "Você não tem permissão para alterar o status de usuários.")
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangeRole godoc
// @Summary      Cambiar rol de usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.ChangeRoleRequest  true  "pending | simple | admin"
// @Success      200   {object}  dto.ProfileActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [patch]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	var in dto.ChangeRoleRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ChangeRole(c.Context(), actor(c), c.Params("id"), in.Role)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrSelfChange):
			return errorWithMessage(c, err, "Você não pode mudar seu próprio papel.")
		case isForbidden(err):
			return errorWithMessage(c, err, "Você não tem permissão para alterar o papel de usuários.")
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}

func isForbidden(err error) bool {
	status, _ := classify(err)
	return status == fiber.StatusForbidden
}
