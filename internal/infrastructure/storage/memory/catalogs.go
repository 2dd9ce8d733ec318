package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
	"pharmacy/internal/domain"
	"pharmacy/internal/domain/catalogs/brand"
	"pharmacy/internal/domain/catalogs/customer"
	"pharmacy/internal/domain/catalogs/medicine"
	"pharmacy/internal/domain/catalogs/product"
	"pharmacy/internal/domain/catalogs/supplier"
)

// named is a catalog row that lists by name.
type named struct {
	id   id.ID
	name string
}

// listRows filters by search and ids, orders by name then id and paginates.
func listRows[T any](rows map[id.ID]T, key func(T) named, filter domain.ListFilter) domain.ListResult[*T] {
	wanted := make(map[id.ID]struct{}, len(filter.IDs))
	for _, v := range filter.IDs {
		wanted[v] = struct{}{}
	}
	search := strings.ToLower(filter.Search)

	matched := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if len(wanted) > 0 {
			if _, ok := wanted[k.id]; !ok {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(k.name), search) {
			continue
		}
		matched = append(matched, row)
	}
	slices.SortFunc(matched, func(a, b T) int {
		ka, kb := key(a), key(b)
		if c := strings.Compare(ka.name, kb.name); c != 0 {
			return c
		}
		return id.Compare(ka.id, kb.id)
	})

	result := domain.ListResult[*T]{
		Items:      make([]*T, 0),
		TotalCount: int64(len(matched)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	for i := filter.Offset; i < len(matched) && (filter.Limit <= 0 || i < filter.Offset+filter.Limit); i++ {
		row := matched[i]
		result.Items = append(result.Items, &row)
	}
	return result
}

///////////
// Brand //
///////////

// BrandRepo implements brand.Repository.
type BrandRepo struct{ s *Store }

func brandKey(b brand.Brand) named { return named{b.ID, b.Name} }

func (r *BrandRepo) Create(ctx context.Context, b *brand.Brand) error {
	return r.s.write(ctx, func(st *state) error {
		for _, existing := range st.brands {
			if existing.Name == b.Name {
				return apperror.NewDuplicate("brand", "name", b.Name)
			}
		}
		st.brands[b.ID] = *b
		return nil
	})
}

func (r *BrandRepo) CreateIfAbsent(ctx context.Context, b *brand.Brand) (*brand.Brand, error) {
	var out brand.Brand
	err := r.s.write(ctx, func(st *state) error {
		for _, existing := range st.brands {
			if existing.Name == b.Name {
				out = existing
				return nil
			}
		}
		st.brands[b.ID] = *b
		out = *b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BrandRepo) GetByID(ctx context.Context, brandID id.ID) (*brand.Brand, error) {
	var out brand.Brand
	err := r.s.read(ctx, func(st *state) error {
		b, ok := st.brands[brandID]
		if !ok {
			return apperror.NewNotFound("brand", brandID.String())
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BrandRepo) FindByName(ctx context.Context, name string) (*brand.Brand, error) {
	var out *brand.Brand
	err := r.s.read(ctx, func(st *state) error {
		for _, b := range st.brands {
			if b.Name == name {
				found := b
				out = &found
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *BrandRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*brand.Brand], error) {
	var result domain.ListResult[*brand.Brand]
	err := r.s.read(ctx, func(st *state) error {
		result = listRows(st.brands, brandKey, filter)
		return nil
	})
	return result, err
}

func (r *BrandRepo) Exists(ctx context.Context, brandID id.ID) (bool, error) {
	var ok bool
	err := r.s.read(ctx, func(st *state) error {
		_, ok = st.brands[brandID]
		return nil
	})
	return ok, err
}

//////////////
// Supplier //
//////////////

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct{ s *Store }

func supplierKey(v supplier.Supplier) named { return named{v.ID, v.Name} }

func (r *SupplierRepo) Create(ctx context.Context, v *supplier.Supplier) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.suppliers[v.ID]; ok {
			return apperror.NewDuplicate("supplier", "id", v.ID.String())
		}
		st.suppliers[v.ID] = *v
		return nil
	})
}

func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	var out supplier.Supplier
	err := r.s.read(ctx, func(st *state) error {
		v, ok := st.suppliers[supplierID]
		if !ok {
			return apperror.NewNotFound("supplier", supplierID.String())
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *SupplierRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*supplier.Supplier], error) {
	var result domain.ListResult[*supplier.Supplier]
	err := r.s.read(ctx, func(st *state) error {
		result = listRows(st.suppliers, supplierKey, filter)
		return nil
	})
	return result, err
}

func (r *SupplierRepo) Exists(ctx context.Context, supplierID id.ID) (bool, error) {
	var ok bool
	err := r.s.read(ctx, func(st *state) error {
		_, ok = st.suppliers[supplierID]
		return nil
	})
	return ok, err
}

//////////////
// Customer //
//////////////

// CustomerRepo implements customer.Repository.
type CustomerRepo struct{ s *Store }

func customerKey(v customer.Customer) named { return named{v.ID, v.Name} }

func (r *CustomerRepo) Create(ctx context.Context, v *customer.Customer) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.customers[v.ID]; ok {
			return apperror.NewDuplicate("customer", "id", v.ID.String())
		}
		st.customers[v.ID] = *v
		return nil
	})
}

func (r *CustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	var out customer.Customer
	err := r.s.read(ctx, func(st *state) error {
		v, ok := st.customers[customerID]
		if !ok {
			return apperror.NewNotFound("customer", customerID.String())
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CustomerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*customer.Customer], error) {
	var result domain.ListResult[*customer.Customer]
	err := r.s.read(ctx, func(st *state) error {
		result = listRows(st.customers, customerKey, filter)
		return nil
	})
	return result, err
}

func (r *CustomerRepo) Exists(ctx context.Context, customerID id.ID) (bool, error) {
	var ok bool
	err := r.s.read(ctx, func(st *state) error {
		_, ok = st.customers[customerID]
		return nil
	})
	return ok, err
}

//////////////
// Medicine //
//////////////

// MedicineRepo implements medicine.Repository.
type MedicineRepo struct{ s *Store }

func medicineKey(m medicine.Medicine) named { return named{m.ID, m.Name} }

func (r *MedicineRepo) Create(ctx context.Context, m *medicine.Medicine) error {
	return r.s.write(ctx, func(st *state) error {
		for _, existing := range st.medicines {
			if existing.Name == m.Name && existing.BrandID == m.BrandID {
				return apperror.NewDuplicate("medicine", "name", m.Name)
			}
		}
		st.medicines[m.ID] = *m
		return nil
	})
}

func (r *MedicineRepo) GetByID(ctx context.Context, medicineID id.ID) (*medicine.Medicine, error) {
	var out medicine.Medicine
	err := r.s.read(ctx, func(st *state) error {
		m, ok := st.medicines[medicineID]
		if !ok {
			return apperror.NewNotFound("medicine", medicineID.String())
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *MedicineRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*medicine.Medicine], error) {
	var result domain.ListResult[*medicine.Medicine]
	err := r.s.read(ctx, func(st *state) error {
		result = listRows(st.medicines, medicineKey, filter)
		return nil
	})
	return result, err
}

func (r *MedicineRepo) Exists(ctx context.Context, medicineID id.ID) (bool, error) {
	var ok bool
	err := r.s.read(ctx, func(st *state) error {
		_, ok = st.medicines[medicineID]
		return nil
	})
	return ok, err
}

func (r *MedicineRepo) LockByIDs(ctx context.Context, ids []id.ID) ([]*medicine.Medicine, error) {
	if !r.s.inTx(ctx) {
		return nil, errLockOutsideTx
	}
	sorted := id.SortedUnique(ids)
	r.s.recordLocks("medicines", sorted)

	out := make([]*medicine.Medicine, 0, len(sorted))
	for _, rowID := range sorted {
		if m, ok := r.s.st.medicines[rowID]; ok {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *MedicineRepo) FindByNameAndBrand(ctx context.Context, name string, brandID id.ID) (*medicine.Medicine, error) {
	var out *medicine.Medicine
	err := r.s.read(ctx, func(st *state) error {
		for _, m := range st.medicines {
			if m.Name == name && m.BrandID == brandID {
				found := m
				out = &found
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MedicineRepo) UpdatePricing(ctx context.Context, medicineID id.ID, price types.Money, expiry time.Time) error {
	return r.s.write(ctx, func(st *state) error {
		m, ok := st.medicines[medicineID]
		if !ok {
			return apperror.NewNotFound("medicine", medicineID.String())
		}
		m.Price = price
		m.ExpiryDate = expiry
		st.medicines[medicineID] = m
		return nil
	})
}

/////////////
// Product //
/////////////

// ProductRepo implements product.Repository.
type ProductRepo struct{ s *Store }

func productKey(p product.Product) named { return named{p.ID, p.Name} }

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return apperror.NewDuplicate("product", "id", p.ID.String())
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	var out product.Product
	err := r.s.read(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return apperror.NewNotFound("product", productID.String())
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	var result domain.ListResult[*product.Product]
	err := r.s.read(ctx, func(st *state) error {
		result = listRows(st.products, productKey, filter)
		return nil
	})
	return result, err
}

func (r *ProductRepo) Exists(ctx context.Context, productID id.ID) (bool, error) {
	var ok bool
	err := r.s.read(ctx, func(st *state) error {
		_, ok = st.products[productID]
		return nil
	})
	return ok, err
}

func (r *ProductRepo) LockByIDs(ctx context.Context, ids []id.ID) ([]*product.Product, error) {
	if !r.s.inTx(ctx) {
		return nil, errLockOutsideTx
	}
	sorted := id.SortedUnique(ids)
	r.s.recordLocks("products", sorted)

	out := make([]*product.Product, 0, len(sorted))
	for _, rowID := range sorted {
		if p, ok := r.s.st.products[rowID]; ok {
			out = append(out, &p)
		}
	}
	return out, nil
}
