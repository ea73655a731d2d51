package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-escolar/pkg/logger"
	"github.com/jhoicas/estoque-escolar/pkg/metrics"
)

// RequestLogger registra cada request con zerolog y lo cuenta en las métricas HTTP.
// Los 5xx salen en nivel error con el error de dominio guardado por writeError.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := c.Route().Path
		m.HTTPRequest(c.Method(), route, status, elapsed)

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if domainErr, ok := c.Locals(LocalError).(error); ok {
			ev = ev.AnErr("cause", domainErr)
		}
		if p, ok := GetProfile(c); ok {
			ev = ev.Str("user_id", p.ID)
		}
		ev.Err(err).
			Str("method", c.Method()).
			Str("route", route).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("request")
		return err
	}
}
