package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
)

// ChangesChannel canal LISTEN/NOTIFY; el payload es el nombre de la tabla.
const ChangesChannel = "table_changes"

var _ notify.Notifier = (*Listener)(nil)

// Listener notifier sobre LISTEN/NOTIFY: Publish hace pg_notify y Run entrega a los
// suscriptores locales los avisos de cualquier instancia conectada a la misma base.
type Listener struct {
	notify.Registry
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewListener construye el listener. Llamar Run en una goroutine.
func NewListener(pool *pgxpool.Pool, log *logger.Logger) *Listener {
	if log == nil {
		log = logger.Nop()
	}
	return &Listener{pool: pool, log: log.Component("pg-listener")}
}

// Publish notifica que table cambió. Fuera de una transacción el aviso sale de inmediato.
func (l *Listener) Publish(ctx context.Context, table string) error {
	if _, err := l.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, ChangesChannel, table); err != nil {
		return domain.NewStoreError("pg_notify", err)
	}
	return nil
}

// Run escucha hasta que ctx se cancele, reconectando con espera exponencial (máx. 30s).
func (l *Listener) Run(ctx context.Context) error {
	var backoff notify.Backoff
	for {
		err := l.listen(ctx, backoff.Reset)
		if ctx.Err() != nil {
			return nil
		}
		wait := backoff.Next()
		l.log.Warn().Err(err).Int("attempt", backoff.Attempt()).Dur("retry_in", wait).Msg("LISTEN interrumpido")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// listen mantiene el LISTEN hasta un error; ready se llama una vez establecido.
func (l *Listener) listen(ctx context.Context, ready func()) error {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	// La conexión queda en LISTEN: se saca del pool y se cierra al terminar.
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+ChangesChannel); err != nil {
		return err
	}
	ready()
	l.log.Info().Str("channel", ChangesChannel).Msg("escuchando cambios")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if !notify.KnownTable(n.Payload) {
			l.log.Debug().Str("payload", n.Payload).Msg("aviso ignorado")
			continue
		}
		l.Dispatch(n.Payload)
	}
}
