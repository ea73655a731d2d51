package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/estoque-escolar/internal/application/notify"
)

func TestRegistry_DispatchPorTabla(t *testing.T) {
	var r notify.Registry
	var products, all []string

	unsubProducts := r.Subscribe(notify.TableProducts, func(table string) { products = append(products, table) })
	r.Subscribe(notify.AllTables, func(table string) { all = append(all, table) })

	r.Dispatch(notify.TableProducts)
	r.Dispatch(notify.TableEntries)

	assert.Equal(t, []string{notify.TableProducts}, products)
	assert.Equal(t, []string{notify.TableProducts, notify.TableEntries}, all)
	assert.Equal(t, 2, r.Len())

	unsubProducts()
	unsubProducts() // idempotente
	r.Dispatch(notify.TableProducts)
	assert.Len(t, products, 1, "tras cancelar no se reciben más avisos")
	assert.Equal(t, 1, r.Len())
}

func TestKnownTable(t *testing.T) {
	assert.True(t, notify.KnownTable("exits"))
	assert.False(t, notify.KnownTable("identities"))
	assert.False(t, notify.KnownTable(notify.AllTables))
}

func TestBackoff_CrecienteConTopeYReset(t *testing.T) {
	var b notify.Backoff
	var waits []time.Duration
	for range 7 {
		waits = append(waits, b.Next())
	}
	assert.Equal(t, []time.Duration{
		2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second,
		notify.MaxBackoff, notify.MaxBackoff, notify.MaxBackoff,
	}, waits)
	assert.Equal(t, 7, b.Attempt())

	// Una suscripción establecida reinicia la escala: la próxima caída espera poco.
	b.Reset()
	assert.Equal(t, 0, b.Attempt())
	assert.Equal(t, 2*time.Second, b.Next())
}
