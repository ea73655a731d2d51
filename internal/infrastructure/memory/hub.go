package memory

import (
	"context"

	"github.com/jhoicas/estoque-escolar/internal/application/notify"
)

var _ notify.Notifier = (*Hub)(nil)

// Hub notifier en proceso: Publish entrega el aviso de forma síncrona a los suscriptores.
type Hub struct {
	notify.Registry
}

// NewHub crea un hub sin suscriptores.
func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) Publish(ctx context.Context, table string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.Dispatch(table)
	return nil
}
