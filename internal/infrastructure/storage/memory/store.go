// Package memory provides an in-process implementation of every repository
// and of tx.Manager. It backs tests and the server when no database is
// configured.
//
// A transaction holds the store-wide mutex for its whole duration and works on
// live state; on error the state captured at begin is restored. Row locks are
// therefore implicit, but LockByIDs still records the order it was asked to
// lock rows in.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"pharmacy/internal/core/id"
	"pharmacy/internal/domain/audit"
	"pharmacy/internal/domain/catalogs/brand"
	"pharmacy/internal/domain/catalogs/customer"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/internal/domain/catalogs/product"
	"pharmacy/internal/domain/catalogs/supplier"
	"pharmacy/internal/domain/invoice"
)

// LockEntry is one row lock request.
type LockEntry struct {
	Table string
	ID    id.ID
}

type state struct {
	brands    map[id.ID]brand.Brand
	suppliers map[id.ID]supplier.Supplier
	customers map[id.ID]customer.Customer
	medicines map[id.ID]medicine.Medicine
	products  map[id.ID]product.Product
	invoices  map[id.ID]invoice.Invoice
	items     map[id.ID][]invoice.Item
	audit     []audit.Record
}

func newState() *state {
	return &state{
		brands:    make(map[id.ID]brand.Brand),
		suppliers: make(map[id.ID]supplier.Supplier),
		customers: make(map[id.ID]customer.Customer),
		medicines: make(map[id.ID]medicine.Medicine),
		products:  make(map[id.ID]product.Product),
		invoices:  make(map[id.ID]invoice.Invoice),
		items:     make(map[id.ID][]invoice.Item),
	}
}

func (s *state) clone() *state {
	items := make(map[id.ID][]invoice.Item, len(s.items))
	for k, v := range s.items {
		items[k] = slices.Clone(v)
	}
	return &state{
		brands:    maps.Clone(s.brands),
		suppliers: maps.Clone(s.suppliers),
		customers: maps.Clone(s.customers),
		medicines: maps.Clone(s.medicines),
		products:  maps.Clone(s.products),
		invoices:  maps.Clone(s.invoices),
		items:     items,
		audit:     slices.Clone(s.audit),
	}
}

// Store is the in-memory backend.
type Store struct {
	mu      sync.Mutex
	st      *state
	lockLog []LockEntry
}

// New creates an empty store.
func New() *Store {
	return &Store{st: newState()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// RunInTransaction implements tx.Manager. Nested calls join the outer
// transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// read runs fn against the state, taking the mutex unless ctx already owns it.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// write is read with a single-statement transaction around fn.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	return s.RunInTransaction(ctx, func(ctx context.Context) error {
		return fn(s.st)
	})
}

func (s *Store) recordLocks(table string, ids []id.ID) {
	for _, rowID := range ids {
		s.lockLog = append(s.lockLog, LockEntry{Table: table, ID: rowID})
	}
}

// LockLog returns every row lock requested so far, in request order.
func (s *Store) LockLog() []LockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lockLog)
}

// ResetLockLog clears the lock log.
func (s *Store) ResetLockLog() {
	s.mu.Lock()
	s.lockLog = nil
	s.mu.Unlock()
}

// Ping implements the readiness check.
func (s *Store) Ping(context.Context) error {
	return nil
}

// --- Repository accessors ---

func (s *Store) Brands() *BrandRepo { return &BrandRepo{s: s} }
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }
func (s *Store) Medicines() *MedicineRepo { return &MedicineRepo{s: s} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }
func (s *Store) Audit() *AuditRecorder { return &AuditRecorder{s: s} }
