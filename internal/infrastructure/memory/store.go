// Package memory implementa todos los repositorios en memoria (STORAGE_DRIVER=memory y tests).
// Respeta las mismas restricciones de unicidad que el esquema SQL.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestor-api/internal/application/stockentry"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

// table filas por id conservando el orden de inserción.
type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) get(id string) (*T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v *T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) del(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// each recorre en orden de inserción hasta que fn devuelva false.
func (t *table[T]) each(fn func(*T) bool) {
	for _, id := range t.order {
		if !fn(t.rows[id]) {
			return
		}
	}
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex

	tenants   *table[entity.Tenant]
	branches  *table[entity.Branch]
	users     *table[entity.User]
	profiles  *table[entity.Profile]
	roles     []entity.UserRole
	templates *table[entity.PermissionTemplate]
	overrides *table[entity.UserPermissions] // clave user|tenant
	products  *table[entity.Product]
	serials   *table[entity.SerialNumber]
	invoices  *table[entity.Invoice]
	items     *table[entity.InvoiceItem]
	movements *table[entity.StockMovement]

	now func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		tenants:   newTable[entity.Tenant](),
		branches:  newTable[entity.Branch](),
		users:     newTable[entity.User](),
		profiles:  newTable[entity.Profile](),
		templates: newTable[entity.PermissionTemplate](),
		overrides: newTable[entity.UserPermissions](),
		products:  newTable[entity.Product](),
		serials:   newTable[entity.SerialNumber](),
		invoices:  newTable[entity.Invoice](),
		items:     newTable[entity.InvoiceItem](),
		movements: newTable[entity.StockMovement](),
		now:       time.Now,
	}
}

func newID() string { return uuid.New().String() }

// Repositorios.
func (s *Store) Tenants() repository.TenantRepository { return &tenantRepo{s} }
func (s *Store) Branches() repository.BranchRepository { return &branchRepo{s} }
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }
func (s *Store) Profiles() repository.ProfileRepository { return &profileRepo{s} }
func (s *Store) Roles() repository.RoleRepository { return &roleRepo{s} }
func (s *Store) Templates() repository.PermissionTemplateRepository { return &templateRepo{s} }
func (s *Store) Overrides() repository.UserPermissionsRepository { return &overrideRepo{s} }
func (s *Store) Products() repository.ProductRepository { return &productRepo{s} }
func (s *Store) SerialNumbers() repository.SerialNumberRepository { return &serialRepo{s} }
func (s *Store) Invoices() repository.InvoiceRepository { return &invoiceRepo{s} }
func (s *Store) StockMovements() repository.StockMovementRepository { return &movementRepo{s} }

// Repositories todos los repositorios del store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Tenants:        s.Tenants(),
		Branches:       s.Branches(),
		Users:          s.Users(),
		Profiles:       s.Profiles(),
		Roles:          s.Roles(),
		Templates:      s.Templates(),
		Overrides:      s.Overrides(),
		Products:       s.Products(),
		SerialNumbers:  s.SerialNumbers(),
		Invoices:       s.Invoices(),
		StockMovements: s.StockMovements(),
	}
}

// EntryRepos repositorios de escritura de entradas de stock.
func (s *Store) EntryRepos() stockentry.EntryRepos {
	return stockentry.EntryRepos{
		Invoices:  s.Invoices(),
		Serials:   s.SerialNumbers(),
		Movements: s.StockMovements(),
		Products:  s.Products(),
	}
}

// Runner el store no tiene transacciones: las entradas usan compensación manual.
func (s *Store) Runner() stockentry.Runner {
	return stockentry.NewDirectRunner(s.EntryRepos())
}

// Counts número de filas por tabla (tests).
type Counts struct {
	Tenants, Branches, Users, Profiles, Roles, Overrides int
	Products, Serials, Invoices, Items, Movements      int
}

// Counts devuelve el número de filas actual de cada tabla.
func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Tenants:   len(s.tenants.rows),
		Branches:  len(s.branches.rows),
		Users:     len(s.users.rows),
		Profiles:  len(s.profiles.rows),
		Roles:     len(s.roles),
		Overrides: len(s.overrides.rows),
		Products:  len(s.products.rows),
		Serials:   len(s.serials.rows),
		Invoices:  len(s.invoices.rows),
		Items:     len(s.items.rows),
		Movements: len(s.movements.rows),
	}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
