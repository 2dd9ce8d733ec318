package dto

import (
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
	"pharmacy/internal/domain/catalogs/brand"
	"pharmacy/internal/domain/catalogs/customer"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/internal/domain/catalogs/product"
	"pharmacy/internal/domain/catalogs/supplier"
)

// --- Supplier ---

// CreateSupplierRequest is the request body for creating a supplier.
type CreateSupplierRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
}

// ToEntity converts DTO to domain entity.
func (r CreateSupplierRequest) ToEntity() (*supplier.Supplier, error) {
	return supplier.NewSupplier(r.Name, r.Phone, r.Email), nil
}

// SupplierResponse is the API view of a supplier.
type SupplierResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// FromSupplier maps a supplier.
func FromSupplier(s *supplier.Supplier) any {
	return SupplierResponse{ID: s.ID.String(), Name: s.Name, Phone: s.Phone, Email: s.Email}
}

// --- Customer ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// ToEntity converts DTO to domain entity.
func (r CreateCustomerRequest) ToEntity() (*customer.Customer, error) {
	return customer.NewCustomer(r.Name, r.Phone), nil
}

// CustomerResponse is the API view of a customer.
type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// FromCustomer maps a customer.
func FromCustomer(c *customer.Customer) any {
	return CustomerResponse{ID: c.ID.String(), Name: c.Name, Phone: c.Phone}
}

// --- Product ---

// CreateProductRequest is the request body for creating a wholesale product.
// Quantity is not accepted: stock only arrives through purchase invoices.
type CreateProductRequest struct {
	SupplierID string      `json:"supplierId" binding:"required,uuid"`
	BrandName  string      `json:"brandName" binding:"required"`
	Name       string      `json:"name" binding:"required"`
	Price      types.Money `json:"price"`
	ExpiryDate string      `json:"expiryDate" binding:"required"`
}

// ToEntity converts DTO to domain entity.
func (r CreateProductRequest) ToEntity() (*product.Product, error) {
	supplierID, err := ParseOptionalID("supplierId", &r.SupplierID)
	if err != nil {
		return nil, err
	}
	expiry, err := ParseDate("expiryDate", r.ExpiryDate)
	if err != nil {
		return nil, err
	}
	sid := id.Nil()
	if supplierID != nil {
		sid = *supplierID
	}
	return product.NewProduct(sid, r.BrandName, r.Name, r.Price, expiry), nil
}

// ProductResponse is the API view of a product.
type ProductResponse struct {
	ID         string `json:"id"`
	SupplierID string `json:"supplierId"`
	BrandName  string `json:"brandName"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Quantity   int64  `json:"quantity"`
	ExpiryDate string `json:"expiryDate"`
}

// FromProduct maps a product.
func FromProduct(p *product.Product) any {
	return ProductResponse{
		ID:         p.ID.String(),
		SupplierID: p.SupplierID.String(),
		BrandName:  p.BrandName,
		Name:       p.Name,
		Price:      p.Price.StringFixed(2),
		Quantity:   p.Quantity,
		ExpiryDate: FormatDate(p.ExpiryDate),
	}
}

// --- Medicine ---

// MedicineResponse is the API view of a retail medicine.
type MedicineResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BrandID    string  `json:"brandId"`
	Quantity   int64   `json:"quantity"`
	Price      string  `json:"price"`
	ExpiryDate string  `json:"expiryDate"`
	SupplierID *string `json:"supplierId,omitempty"`
	Location   string  `json:"location"`
	Category   string  `json:"category"`
}

// FromMedicine maps a medicine.
func FromMedicine(m *medicine.Medicine) any {
	resp := MedicineResponse{
		ID:         m.ID.String(),
		Name:       m.Name,
		BrandID:    m.BrandID.String(),
		Quantity:   m.Quantity,
		Price:      m.Price.StringFixed(2),
		ExpiryDate: FormatDate(m.ExpiryDate),
		Location:   m.Location,
		Category:   m.Category,
	}
	if m.SupplierID != nil {
		s := m.SupplierID.String()
		resp.SupplierID = &s
	}
	return resp
}

// --- Brand ---

// BrandResponse is the API view of a brand.
type BrandResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

// FromBrand maps a brand.
func FromBrand(b *brand.Brand) any {
	return BrandResponse{ID: b.ID.String(), Name: b.Name, Manufacturer: b.Manufacturer}
}
