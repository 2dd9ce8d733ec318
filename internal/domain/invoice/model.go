// Package invoice provides sale and purchase invoices and the coordinator that
// keeps the retail and wholesale catalogs consistent with them.
package invoice

import (
	"time"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/entity"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
)

// Type is fixed at creation.
type Type string

const (
	TypeSale     Type = "sale"
	TypePurchase Type = "purchase"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	return t == TypeSale || t == TypePurchase
}

// Invoice is a sale (consumes medicines) or purchase (adds products) document.
type Invoice struct {
	entity.BaseDocument

	Date        time.Time   `db:"date" json:"date"`
	Type        Type        `db:"type" json:"type"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	CustomerID  *id.ID      `db:"customer_id" json:"customerId,omitempty"`

	Items []Item `db:"-" json:"items"`
}

// NewInvoice creates an invoice header with a generated ID.
func NewInvoice(t Type, date time.Time, customerID *id.ID) *Invoice {
	return &Invoice{
		BaseDocument: entity.NewBaseDocument(),
		Date:         date,
		Type:         t,
		TotalAmount:  types.Zero(),
		CustomerID:   customerID,
	}
}

// Item is one invoice line. Exactly one of MedicineID (sale) or ProductID
// (purchase) is set.
type Item struct {
	ID         id.ID       `db:"id" json:"id"`
	InvoiceID  id.ID       `db:"invoice_id" json:"invoiceId"`
	Quantity   int64       `db:"quantity" json:"quantity"`
	Price      types.Money `db:"price" json:"price"`
	MedicineID *id.ID      `db:"medicine_id" json:"medicineId,omitempty"`
	ProductID  *id.ID      `db:"product_id" json:"productId,omitempty"`
}

// Ref returns the catalog row the item points at.
func (it Item) Ref() id.ID {
	if it.MedicineID != nil {
		return *it.MedicineID
	}
	if it.ProductID != nil {
		return *it.ProductID
	}
	return id.Nil()
}

// ItemInput is a requested line: a quantity of one catalog row.
type ItemInput struct {
	Quantity   int64
	MedicineID *id.ID
	ProductID  *id.ID
}

// MaxItemQuantity bounds the quantity of one catalog row on an invoice,
// duplicate lines included. Any sum of bounded lines stays far from int64
// overflow.
const MaxItemQuantity int64 = 1_000_000_000

// validateItemInputs checks shape only: non-empty, positive bounded
// quantities and exactly one reference per line.
func validateItemInputs(items []ItemInput) error {
	if len(items) == 0 {
		return apperror.NewValidation("invoice must have at least one item").WithDetail("field", "items")
	}
	perRef := make(map[id.ID]int64, len(items))
	for i, it := range items {
		if it.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items.quantity").
				WithDetail("index", i)
		}
		if (it.MedicineID == nil) == (it.ProductID == nil) {
			return apperror.NewValidation("item must reference exactly one of medicineId or productId").
				WithDetail("field", "items").
				WithDetail("index", i)
		}

		ref := it.ref()
		if it.Quantity > MaxItemQuantity-perRef[ref] {
			return apperror.NewValidation("quantity exceeds the per-item limit").
				WithDetail("field", "items.quantity").
				WithDetail("index", i).
				WithDetail("limit", MaxItemQuantity)
		}
		perRef[ref] += it.Quantity
	}
	return nil
}

func (it ItemInput) ref() id.ID {
	if it.MedicineID != nil {
		return *it.MedicineID
	}
	return *it.ProductID
}

// validateItemRefs checks that every line references the catalog of t.
func validateItemRefs(t Type, items []ItemInput) error {
	for i, it := range items {
		switch {
		case t == TypeSale && it.MedicineID == nil:
			return apperror.NewValidation("sale items must reference a medicine").
				WithDetail("field", "items.medicineId").
				WithDetail("index", i)
		case t == TypePurchase && it.ProductID == nil:
			return apperror.NewValidation("purchase items must reference a product").
				WithDetail("field", "items.productId").
				WithDetail("index", i)
		}
	}
	return nil
}

func validateDate(date time.Time) error {
	if date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	return nil
}
