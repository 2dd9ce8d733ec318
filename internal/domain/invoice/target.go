package invoice

import (
	"context"
	"fmt"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/internal/domain/catalogs/product"
	"pharmacy/internal/domain/registers/stock"
)

// CatalogResolver propagates purchases into the retail catalog.
type CatalogResolver interface {
	ResolveMedicineFromPurchase(ctx context.Context, p *product.Product, quantity int64) (id.ID, error)
	WithdrawMedicineFromPurchase(ctx context.Context, p *product.Product, quantity int64) error
	FindLinked(ctx context.Context, p *product.Product) (*medicine.Medicine, error)
}

// Snapshot is the locked state of every row an operation touches.
type Snapshot struct {
	prices     map[id.ID]types.Money
	quantities map[id.ID]int64

	// purchase only
	products      map[id.ID]*product.Product
	linked        map[id.ID]id.ID
	medicineStock map[id.ID]int64
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		prices:        make(map[id.ID]types.Money),
		quantities:    make(map[id.ID]int64),
		products:      make(map[id.ID]*product.Product),
		linked:        make(map[id.ID]id.ID),
		medicineStock: make(map[id.ID]int64),
	}
}

// Price returns the locked catalog price of ref.
func (s *Snapshot) Price(ref id.ID) types.Money {
	return s.prices[ref]
}

// StockTarget is the catalog an invoice type moves stock in.
type StockTarget interface {
	// NewItem builds an item line pointing at ref.
	NewItem(invoiceID, ref id.ID, quantity int64, price types.Money) Item

	// FindForUpdate locks every referenced row in ascending id order.
	// A missing row is NotFound.
	FindForUpdate(ctx context.Context, refs []id.ID) (*Snapshot, error)

	// Validate checks every stock effect of plan against the snapshot.
	Validate(snap *Snapshot, plan Plan) error

	// Apply writes the plan's own-catalog movements through the ledger.
	Apply(ctx context.Context, snap *Snapshot, plan Plan) error

	// ResolveFromPurchase carries the plan's effect into the retail catalog.
	ResolveFromPurchase(ctx context.Context, snap *Snapshot, plan Plan) error
}

//////////////
// Medicine //
//////////////

// MedicineTarget is the sale side: items consume retail medicine stock.
type MedicineTarget struct {
	medicines medicine.Repository
	ledger    *stock.Ledger
}

// NewMedicineTarget creates the sale target.
func NewMedicineTarget(medicines medicine.Repository, ledger *stock.Ledger) *MedicineTarget {
	return &MedicineTarget{medicines: medicines, ledger: ledger}
}

func (t *MedicineTarget) NewItem(invoiceID, ref id.ID, quantity int64, price types.Money) Item {
	medicineID := ref
	return Item{ID: id.New(), InvoiceID: invoiceID, Quantity: quantity, Price: price, MedicineID: &medicineID}
}

func (t *MedicineTarget) FindForUpdate(ctx context.Context, refs []id.ID) (*Snapshot, error) {
	sorted := id.SortedUnique(refs)
	rows, err := t.medicines.LockByIDs(ctx, sorted)
	if err != nil {
		return nil, fmt.Errorf("lock medicines: %w", err)
	}

	snap := newSnapshot()
	for _, m := range rows {
		snap.prices[m.ID] = m.Price
		snap.quantities[m.ID] = m.Quantity
	}
	for _, ref := range sorted {
		if _, ok := snap.quantities[ref]; !ok {
			return nil, apperror.NewNotFound("medicine", ref.String())
		}
	}
	return snap, nil
}

// movement turns a line delta into a ledger movement. A positive sale delta
// is additional consumption.
func (t *MedicineTarget) movement(c Change) stock.Movement {
	return stock.Movement{Kind: stock.KindMedicine, ID: c.Ref, Change: -c.Delta, Cause: stock.CauseSale}
}

func (t *MedicineTarget) Validate(snap *Snapshot, plan Plan) error {
	for _, c := range plan.Deltas() {
		if err := t.movement(c).Check(snap.quantities[c.Ref]); err != nil {
			return err
		}
	}
	return nil
}

func (t *MedicineTarget) Apply(ctx context.Context, snap *Snapshot, plan Plan) error {
	for _, c := range plan.Deltas() {
		if _, err := t.ledger.Apply(ctx, t.movement(c)); err != nil {
			return err
		}
	}
	return nil
}

// ResolveFromPurchase is a no-op: sales never provision catalog rows.
func (t *MedicineTarget) ResolveFromPurchase(context.Context, *Snapshot, Plan) error {
	return nil
}

/////////////
// Product //
/////////////

// ProductTarget is the purchase side: items add wholesale product stock and
// the linked retail medicine stock.
type ProductTarget struct {
	products  product.Repository
	medicines medicine.Repository
	ledger    *stock.Ledger
	resolver  CatalogResolver
}

// NewProductTarget creates the purchase target.
func NewProductTarget(
	products product.Repository,
	medicines medicine.Repository,
	ledger *stock.Ledger,
	resolver CatalogResolver,
) *ProductTarget {
	return &ProductTarget{products: products, medicines: medicines, ledger: ledger, resolver: resolver}
}

func (t *ProductTarget) NewItem(invoiceID, ref id.ID, quantity int64, price types.Money) Item {
	productID := ref
	return Item{ID: id.New(), InvoiceID: invoiceID, Quantity: quantity, Price: price, ProductID: &productID}
}

// FindForUpdate locks products first, then the medicines currently linked to
// them, each set in ascending id order.
func (t *ProductTarget) FindForUpdate(ctx context.Context, refs []id.ID) (*Snapshot, error) {
	sorted := id.SortedUnique(refs)
	rows, err := t.products.LockByIDs(ctx, sorted)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}

	snap := newSnapshot()
	for _, p := range rows {
		snap.prices[p.ID] = p.Price
		snap.quantities[p.ID] = p.Quantity
		snap.products[p.ID] = p
	}
	for _, ref := range sorted {
		if _, ok := snap.products[ref]; !ok {
			return nil, apperror.NewNotFound("product", ref.String())
		}
	}

	medicineIDs := make([]id.ID, 0, len(sorted))
	for _, ref := range sorted {
		m, err := t.resolver.FindLinked(ctx, snap.products[ref])
		if err != nil {
			return nil, err
		}
		if m != nil {
			snap.linked[ref] = m.ID
			medicineIDs = append(medicineIDs, m.ID)
		}
	}
	if len(medicineIDs) == 0 {
		return snap, nil
	}

	locked, err := t.medicines.LockByIDs(ctx, id.SortedUnique(medicineIDs))
	if err != nil {
		return nil, fmt.Errorf("lock linked medicines: %w", err)
	}
	for _, m := range locked {
		snap.medicineStock[m.ID] = m.Quantity
	}
	return snap, nil
}

func (t *ProductTarget) movement(c Change) stock.Movement {
	return stock.Movement{Kind: stock.KindProduct, ID: c.Ref, Change: c.Delta, Cause: stock.CausePurchase}
}

// Validate checks wholesale reversals per product and retail reversals per
// linked medicine. Several products may share one medicine, so the retail
// check runs on the net change.
func (t *ProductTarget) Validate(snap *Snapshot, plan Plan) error {
	net := make(map[id.ID]int64)
	var medicineOrder []id.ID

	for _, c := range plan.Deltas() {
		if err := t.movement(c).Check(snap.quantities[c.Ref]); err != nil {
			return err
		}

		medicineID, ok := snap.linked[c.Ref]
		if !ok {
			if c.Delta < 0 {
				return apperror.NewNegativeStock(string(stock.KindMedicine), c.Ref.String(), -c.Delta, 0).
					WithDetail("reason", "no retail medicine linked to product")
			}
			continue
		}
		if _, seen := net[medicineID]; !seen {
			medicineOrder = append(medicineOrder, medicineID)
		}
		net[medicineID] += c.Delta
	}

	for _, medicineID := range id.SortedUnique(medicineOrder) {
		m := stock.Movement{Kind: stock.KindMedicine, ID: medicineID, Change: net[medicineID], Cause: stock.CausePurchase}
		if err := m.Check(snap.medicineStock[medicineID]); err != nil {
			return err
		}
	}
	return nil
}

func (t *ProductTarget) Apply(ctx context.Context, snap *Snapshot, plan Plan) error {
	for _, c := range plan.Deltas() {
		if _, err := t.ledger.Apply(ctx, t.movement(c)); err != nil {
			return err
		}
	}
	return nil
}

// ResolveFromPurchase adds before it withdraws so a medicine shared by several
// products never dips below its final quantity.
func (t *ProductTarget) ResolveFromPurchase(ctx context.Context, snap *Snapshot, plan Plan) error {
	deltas := plan.Deltas()
	for _, c := range deltas {
		if c.Delta <= 0 {
			continue
		}
		if _, err := t.resolver.ResolveMedicineFromPurchase(ctx, snap.products[c.Ref], c.Delta); err != nil {
			return err
		}
	}
	for _, c := range deltas {
		if c.Delta >= 0 {
			continue
		}
		if err := t.resolver.WithdrawMedicineFromPurchase(ctx, snap.products[c.Ref], -c.Delta); err != nil {
			return err
		}
	}
	return nil
}
