package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-escolar/internal/application/auth"
	"github.com/jhoicas/estoque-escolar/internal/application/dto"
)

// RequireActive corta los requests de perfiles aún no liberados por un administrador.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → no hay perfil en el contexto.
//   - 403 Forbidden    → perfil inactivo (pendiente o desactivado).
func RequireActive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, ok := GetProfile(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: msgUnauthorized,
			})
		}
		if !profile.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "AWAITING_ACTIVATION",
				Message: auth.MsgAwaitingActivation,
			})
		}
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados. Debe usarse DESPUÉS de
// AuthMiddleware; los servicios repiten la verificación con la política de acceso.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		profile, ok := GetProfile(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: msgUnauthorized,
			})
		}
		if _, ok := allowed[profile.Role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: msgForbidden,
			})
		}
		return c.Next()
	}
}
