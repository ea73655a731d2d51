// Package notify define la notificación de cambios por tabla: tras cada mutación
// confirmada se publica el nombre de la tabla y los suscriptores vuelven a leer.
package notify

import (
	"context"
	"sort"
	"sync"
)

// Tablas observables.
const (
	TableProducts = "products"
	TableEntries  = "entries"
	TableExits    = "exits"
	TableProfiles = "profiles"

	// AllTables suscribe a cualquier tabla.
	AllTables = "*"
)

// KnownTable indica si table es una tabla observable.
func KnownTable(table string) bool {
	switch table {
	case TableProducts, TableEntries, TableExits, TableProfiles:
		return true
	}
	return false
}

// Handler recibe el nombre de la tabla modificada.
type Handler func(table string)

// Publisher emite el aviso de que table cambió.
type Publisher interface {
	Publish(ctx context.Context, table string) error
}

// Subscriber registra handlers por tabla. La función devuelta cancela la suscripción.
type Subscriber interface {
	Subscribe(table string, h Handler) (unsubscribe func())
}

// Notifier publica y entrega avisos de cambio.
type Notifier interface {
	Publisher
	Subscriber
}

// Registry mapa de suscriptores seguro para uso concurrente. Lo embeben los notifiers
// concretos; cada uno decide de dónde vienen los avisos que pasa a Dispatch.
type Registry struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]Handler
}

// Subscribe registra h para table (o AllTables).
func (r *Registry) Subscribe(table string, h Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs == nil {
		r.subs = make(map[string]map[int]Handler)
	}
	if r.subs[table] == nil {
		r.subs[table] = make(map[int]Handler)
	}
	r.next++
	id := r.next
	r.subs[table][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subs[table], id)
			if len(r.subs[table]) == 0 {
				delete(r.subs, table)
			}
		})
	}
}

// Dispatch entrega table a sus suscriptores y a los de AllTables, en orden de suscripción.
// Los handlers se llaman fuera del lock.
func (r *Registry) Dispatch(table string) {
	r.mu.RLock()
	ids := make([]int, 0, len(r.subs[table])+len(r.subs[AllTables]))
	handlers := make(map[int]Handler, cap(ids))
	for _, key := range []string{table, AllTables} {
		for id, h := range r.subs[key] {
			ids = append(ids, id)
			handlers[id] = h
		}
	}
	r.mu.RUnlock()

	sort.Ints(ids)
	for _, id := range ids {
		handlers[id](table)
	}
}

// Len número de suscripciones activas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, m := range r.subs {
		n += len(m)
	}
	return n
}

// Nop Publisher que descarta los avisos.
type Nop struct{}

func (Nop) Publish(context.Context, string) error { return nil }
