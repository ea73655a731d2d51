package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
)

// LocalProfile key de Locals con el perfil del usuario autenticado.
const LocalProfile = "profile"

// SessionResolver valida el token y devuelve el perfil de la sesión.
// Lo implementa *auth.AuthUseCase.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.Profile, error)
}

// AuthMiddleware valida el Bearer Token JWT y deja el perfil (rol y activo leídos de la
// base en cada request) en c.Locals.
func AuthMiddleware(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Você precisa estar logado."})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vazio"})
		}
		profile, err := resolver.ResolveSession(c.Context(), tokenString)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalProfile, *profile)
		return c.Next()
	}
}

// GetProfile devuelve el perfil del contexto (después del middleware de auth).
func GetProfile(c *fiber.Ctx) (entity.Profile, bool) {
	p, ok := c.Locals(LocalProfile).(entity.Profile)
	return p, ok
}

// actor perfil del request; un perfil vacío no tiene permisos.
func actor(c *fiber.Ctx) entity.Profile {
	p, _ := GetProfile(c)
	return p
}
