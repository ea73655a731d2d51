// Package redis implementa la notificación de cambios sobre Redis pub/sub.
package redis

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/pkg/config"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
)

var _ notify.Notifier = (*Notifier)(nil)

// Notifier publica en "<prefix><tabla>" y reparte a los suscriptores locales lo que llega
// por PSUBSCRIBE "<prefix>*".
type Notifier struct {
	notify.Registry
	client *goredis.Client
	prefix string
	log    *logger.Logger
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, domain.NewStoreError("redis ping", err)
	}
	return client, nil
}

// NewNotifier construye el notifier. Llamar Run en una goroutine.
func NewNotifier(client *goredis.Client, prefix string, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{client: client, prefix: prefix, log: log.Component("redis-notifier")}
}

// Channel nombre del canal Redis de table.
func (n *Notifier) Channel(table string) string {
	return n.prefix + table
}

// Publish avisa que table cambió.
func (n *Notifier) Publish(ctx context.Context, table string) error {
	if err := n.client.Publish(ctx, n.Channel(table), table).Err(); err != nil {
		return domain.NewStoreError("redis publish", err)
	}
	return nil
}

// Run se suscribe hasta que ctx se cancele, reintentando con espera exponencial (máx. 30s).
func (n *Notifier) Run(ctx context.Context) error {
	var backoff notify.Backoff
	for {
		err := n.subscribe(ctx, backoff.Reset)
		if ctx.Err() != nil {
			return nil
		}
		wait := backoff.Next()
		n.log.Warn().Err(err).Int("attempt", backoff.Attempt()).Dur("retry_in", wait).Msg("suscripción redis interrumpida")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// subscribe reparte mensajes hasta un error; ready se llama al confirmarse la suscripción.
func (n *Notifier) subscribe(ctx context.Context, ready func()) error {
	sub := n.client.PSubscribe(ctx, n.prefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ready()
	n.log.Info().Str("pattern", n.prefix+"*").Msg("escuchando cambios")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return goredis.ErrClosed
			}
			table := strings.TrimPrefix(msg.Channel, n.prefix)
			if !notify.KnownTable(table) {
				continue
			}
			n.Dispatch(table)
		}
	}
}
