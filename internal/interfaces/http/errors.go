package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/access"
)

// LocalError guarda el error de dominio del request para el middleware de logging.
const LocalError = "error"

// Mensajes mostrados al usuario.
const (
	msgForbidden         = "Você não tem permissão para realizar esta ação."
	msgSelfChange        = "Você não pode alterar seu próprio perfil."
	msgInsufficientStock = "Quantidade em estoque insuficiente!"
	msgNegativeAdjust    = "Ajuste de quantidade resultaria em estoque negativo. Operação cancelada."
	msgNotFound          = "Registro não encontrado."
	msgDuplicate         = "Registro já existente."
	msgUnauthorized      = "Sessão inválida ou expirada. Faça login novamente."
	msgUnavailable       = "Serviço temporariamente indisponível. Tente novamente."
	msgInternal          = "Erro interno. Tente novamente."
)

// writeError traduce un error de dominio a status HTTP + ErrorResponse.
// El orden importa: ErrSelfChange también es ErrPermission y un ajuste negativo en una
// edición es a la vez ErrValidation y ErrInsufficientStock.
func writeError(c *fiber.Ctx, err error) error {
	c.Locals(LocalError, err)
	status, body := classify(err)
	return c.Status(status).JSON(body)
}

func classify(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, access.ErrSelfChange):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "SELF_CHANGE", Message: msgSelfChange}
	case errors.Is(err, domain.ErrPermission):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: msgForbidden}
	case errors.Is(err, domain.ErrInsufficientStock) && errors.Is(err, domain.ErrValidation):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "NEGATIVE_STOCK", Message: msgNegativeAdjust}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: msgInsufficientStock}
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: validationDetail(err)}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: msgNotFound}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: msgDuplicate}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: msgUnauthorized}
	case errors.Is(err, domain.ErrStore):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: msgUnavailable}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: msgInternal}
	}
}

// validationDetail devuelve el texto posterior al último "entrada inválida: " de la cadena.
func validationDetail(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		msg = msg[i+len(prefix):]
	}
	return msg
}

// errorWithMessage responde como writeError pero con un texto propio de la acción.
func errorWithMessage(c *fiber.Ctx, err error, message string) error {
	c.Locals(LocalError, err)
	status, body := classify(err)
	body.Message = message
	return c.Status(status).JSON(body)
}
