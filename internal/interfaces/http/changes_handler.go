package http

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
)

const heartbeatInterval = 15 * time.Second

// ChangesHandler expone las notificaciones de cambio como Server-Sent Events.
// Cada evento lleva solo el nombre de la tabla; el cliente vuelve a leer lo que necesite.
type ChangesHandler struct {
	sub      notify.Subscriber
	shutdown context.Context
	log      *logger.Logger
}

// NewChangesHandler construye el handler. Los streams abiertos terminan cuando shutdown se cancela.
func NewChangesHandler(sub notify.Subscriber, shutdown context.Context, log *logger.Logger) *ChangesHandler {
	if shutdown == nil {
		shutdown = context.Background()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ChangesHandler{sub: sub, shutdown: shutdown, log: log.Component("sse")}
}

// Stream godoc
// @Summary      Stream de cambios (SSE)
// @Description  Emite "event: change" con data=<tabla> tras cada escritura confirmada.
// @Tags         changes
// @Security     Bearer
// @Produce      text/event-stream
// @Param        tables  query  string  false  "Lista separada por comas (products,entries,exits,profiles); vacío = todas"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/changes [get]
func (h *ChangesHandler) Stream(c *fiber.Ctx) error {
	tables, err := parseTables(c.Query("tables"))
	if err != nil {
		return writeError(c, err)
	}

	// Sin bloquear al publicador: si el cliente no consume, los avisos repetidos se descartan.
	events := make(chan string, 16)
	unsubscribes := make([]func(), 0, len(tables))
	for _, t := range tables {
		unsubscribes = append(unsubscribes, h.sub.Subscribe(t, func(table string) {
			select {
			case events <- table:
			default:
			}
		}))
	}
	userID := actor(c).ID

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			for _, unsubscribe := range unsubscribes {
				unsubscribe()
			}
			h.log.Debug().Str("user_id", userID).Msg("stream cerrado")
		}()
		h.log.Debug().Str("user_id", userID).Strs("tables", tables).Msg("stream abierto")

		fmt.Fprint(w, "retry: 3000\n\n")
		if err := w.Flush(); err != nil {
			return
		}
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-h.shutdown.Done():
				return
			case table := <-events:
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", table)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			// Flush falla cuando el cliente cerró la conexión.
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}

// parseTables valida la lista de tablas pedida; vacía equivale a todas.
func parseTables(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{notify.AllTables}, nil
	}
	seen := make(map[string]struct{})
	var tables []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if !notify.KnownTable(t) && t != notify.AllTables {
			return nil, domain.Validationf("tabela desconhecida: %q", t)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		return []string{notify.AllTables}, nil
	}
	return tables, nil
}
