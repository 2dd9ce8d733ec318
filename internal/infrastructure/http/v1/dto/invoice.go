package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"pharmacy/internal/core/types"
	"pharmacy/internal/domain/audit"
	"pharmacy/internal/domain/invoice"
)

// --- Request DTOs ---

// InvoiceItemRequest is one requested line.
type InvoiceItemRequest struct {
	Quantity   int64   `json:"quantity" binding:"gt=0,lte=1000000000"`
	MedicineID *string `json:"medicineId" binding:"omitempty,uuid"`
	ProductID  *string `json:"productId" binding:"omitempty,uuid"`
}

// CreateInvoiceRequest is the request body for creating an invoice.
type CreateInvoiceRequest struct {
	Date       string               `json:"date" binding:"required"`
	Type       string               `json:"type" binding:"required,oneof=sale purchase"`
	CustomerID *string              `json:"customerId" binding:"omitempty,uuid"`
	Items      []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToInput converts the request into the coordinator's input.
func (r *CreateInvoiceRequest) ToInput() (invoice.CreateInput, error) {
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return invoice.CreateInput{}, err
	}
	customerID, err := ParseOptionalID("customerId", r.CustomerID)
	if err != nil {
		return invoice.CreateInput{}, err
	}
	items, err := toItemInputs(r.Items)
	if err != nil {
		return invoice.CreateInput{}, err
	}
	return invoice.CreateInput{
		Date:       date,
		Type:       invoice.Type(r.Type),
		Items:      items,
		CustomerID: customerID,
	}, nil
}

// UpdateInvoiceRequest is the request body for replacing an invoice.
// Type is optional; when present it must match the stored type.
type UpdateInvoiceRequest struct {
	Date  string               `json:"date" binding:"required"`
	Type  string               `json:"type" binding:"omitempty,oneof=sale purchase"`
	Items []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToInput converts the request into the coordinator's input.
func (r *UpdateInvoiceRequest) ToInput() (invoice.UpdateInput, error) {
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return invoice.UpdateInput{}, err
	}
	items, err := toItemInputs(r.Items)
	if err != nil {
		return invoice.UpdateInput{}, err
	}
	return invoice.UpdateInput{
		Date:  date,
		Type:  invoice.Type(r.Type),
		Items: items,
	}, nil
}

func toItemInputs(reqs []InvoiceItemRequest) ([]invoice.ItemInput, error) {
	items := make([]invoice.ItemInput, 0, len(reqs))
	for i, r := range reqs {
		medicineID, err := ParseOptionalID(fmt.Sprintf("items[%d].medicineId", i), r.MedicineID)
		if err != nil {
			return nil, err
		}
		productID, err := ParseOptionalID(fmt.Sprintf("items[%d].productId", i), r.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, invoice.ItemInput{
			Quantity:   r.Quantity,
			MedicineID: medicineID,
			ProductID:  productID,
		})
	}
	return items, nil
}

// InvoiceListQuery holds the list endpoint's query parameters.
type InvoiceListQuery struct {
	Type       string `form:"type" binding:"omitempty,oneof=sale purchase"`
	CustomerID string `form:"customerId" binding:"omitempty,uuid"`
	DateFrom   string `form:"dateFrom"`
	DateTo     string `form:"dateTo"`
	Limit      int    `form:"limit" binding:"omitempty,min=0"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts query parameters into a repository filter.
func (q *InvoiceListQuery) ToFilter() (invoice.ListFilter, error) {
	f := invoice.ListFilter{
		Type:   invoice.Type(q.Type),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	customerID, err := ParseOptionalID("customerId", &q.CustomerID)
	if err != nil {
		return f, err
	}
	f.CustomerID = customerID

	if q.DateFrom != "" {
		d, err := ParseDate("dateFrom", q.DateFrom)
		if err != nil {
			return f, err
		}
		f.DateFrom = &d
	}
	if q.DateTo != "" {
		d, err := ParseDate("dateTo", q.DateTo)
		if err != nil {
			return f, err
		}
		f.DateTo = &d
	}
	return f, nil
}

// HistoryQuery holds the history endpoint's query parameters.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=0"`
}

// --- Response DTOs ---

// InvoiceItemResponse is one persisted line.
type InvoiceItemResponse struct {
	ID         string  `json:"id"`
	Quantity   int64   `json:"quantity"`
	Price      string  `json:"price"`
	Amount     string  `json:"amount"`
	MedicineID *string `json:"medicineId,omitempty"`
	ProductID  *string `json:"productId,omitempty"`
}

// InvoiceResponse is the API view of an invoice.
type InvoiceResponse struct {
	ID          string                `json:"id"`
	Date        string                `json:"date"`
	Type        string                `json:"type"`
	TotalAmount string                `json:"totalAmount"`
	CustomerID  *string               `json:"customerId,omitempty"`
	Items       []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// FromInvoice maps a domain invoice. Items are omitted when not loaded.
func FromInvoice(inv *invoice.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:          inv.ID.String(),
		Date:        FormatDate(inv.Date),
		Type:        string(inv.Type),
		TotalAmount: inv.TotalAmount.StringFixed(2),
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
	if inv.CustomerID != nil {
		s := inv.CustomerID.String()
		resp.CustomerID = &s
	}
	for _, it := range inv.Items {
		item := InvoiceItemResponse{
			ID:       it.ID.String(),
			Quantity: it.Quantity,
			Price:    it.Price.StringFixed(2),
			Amount:   types.LineAmount(it.Quantity, it.Price).StringFixed(2),
		}
		if it.MedicineID != nil {
			s := it.MedicineID.String()
			item.MedicineID = &s
		}
		if it.ProductID != nil {
			s := it.ProductID.String()
			item.ProductID = &s
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

// AuditRecordResponse is one audit trail entry.
type AuditRecordResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	TraceID   string          `json:"traceId,omitempty"`
	Changes   json.RawMessage `json:"changes"`
	CreatedAt time.Time       `json:"createdAt"`
}

// FromAuditRecords maps a trail; an empty trail becomes an empty array.
func FromAuditRecords(records []audit.Record) []AuditRecordResponse {
	out := make([]AuditRecordResponse, len(records))
	for i, r := range records {
		out[i] = AuditRecordResponse{
			ID:        r.ID.String(),
			Action:    string(r.Action),
			TraceID:   r.TraceID,
			Changes:   r.Changes,
			CreatedAt: r.CreatedAt,
		}
	}
	return out
}
