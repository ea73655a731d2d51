// Package memory implementa los puertos de persistencia en memoria (desarrollo y tests).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/estoque-escolar/internal/application/inventory"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// tables estado completo del store; se clona para simular transacciones.
type tables struct {
	products   map[string]entity.Product
	entries    map[string]entity.Entry
	exits      map[string]entity.Exit
	profiles   map[string]entity.Profile
	identities map[string]entity.Identity
}

func newTables() *tables {
	return &tables{
		products:   make(map[string]entity.Product),
		entries:    make(map[string]entity.Entry),
		exits:      make(map[string]entity.Exit),
		profiles:   make(map[string]entity.Profile),
		identities: make(map[string]entity.Identity),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.products {
		c.products[k] = v
	}
	for k, v := range t.entries {
		c.entries[k] = v
	}
	for k, v := range t.exits {
		c.exits[k] = v
	}
	for k, v := range t.profiles {
		c.profiles[k] = v
	}
	for k, v := range t.identities {
		c.identities[k] = v
	}
	return c
}

// accessor da acceso exclusivo a las tablas durante fn.
type accessor func(fn func(*tables) error) error

// Store almacenamiento en memoria con transacciones por snapshot: Run trabaja sobre
// una copia y solo la publica si fn termina sin error.
type Store struct {
	mu   sync.Mutex
	data *tables
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newTables()}
}

func (s *Store) locked(fn func(*tables) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Products repositorio fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{access: s.locked} }

// Entries repositorio fuera de transacción.
func (s *Store) Entries() *EntryRepo { return &EntryRepo{access: s.locked} }

// Exits repositorio fuera de transacción.
func (s *Store) Exits() *ExitRepo { return &ExitRepo{access: s.locked} }

// Profiles repositorio de perfiles.
func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{access: s.locked} }

// Identities repositorio de credenciales.
func (s *Store) Identities() *IdentityRepo { return &IdentityRepo{access: s.locked} }

// Run ejecuta fn con repositorios atados a una copia del estado. Las transacciones se
// serializan; los repositorios recibidos no deben usarse fuera de fn.
func (s *Store) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	entries repository.EntryRepository,
	exits repository.ExitRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	direct := func(f func(*tables) error) error { return f(work) }

	if err := fn(&ProductRepo{access: direct}, &EntryRepo{access: direct}, &ExitRepo{access: direct}); err != nil {
		return err
	}
	s.data = work
	return nil
}
