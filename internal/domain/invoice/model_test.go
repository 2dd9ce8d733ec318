package invoice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
	"pharmacy/internal/core/types"
)

func TestTotal(t *testing.T) {
	m1, m2 := id.New(), id.New()
	inv := &Invoice{Items: []Item{
		{Quantity: 4, Price: types.MustMoney("2.00"), MedicineID: &m1},
		{Quantity: 3, Price: types.MustMoney("0.35"), MedicineID: &m2},
	}}
	inv.RecalculateTotal()
	assert.Equal(t, "9.05", inv.TotalAmount.StringFixed(2))

	inv.Items = nil
	inv.RecalculateTotal()
	assert.True(t, inv.TotalAmount.IsZero())
}

func TestItemRef(t *testing.T) {
	m, p := id.New(), id.New()
	assert.Equal(t, m, Item{MedicineID: &m}.Ref())
	assert.Equal(t, p, Item{ProductID: &p}.Ref())
	assert.True(t, id.IsNil(Item{}.Ref()))
}

func TestValidateItemInputsBoundsQuantityPerRef(t *testing.T) {
	m1, m2 := id.New(), id.New()

	tests := []struct {
		name    string
		items   []ItemInput
		wantErr bool
	}{
		{"at limit", []ItemInput{{Quantity: MaxItemQuantity, MedicineID: &m1}}, false},
		{"over limit", []ItemInput{{Quantity: MaxItemQuantity + 1, MedicineID: &m1}}, true},
		{"duplicates summed over limit", []ItemInput{
			{Quantity: MaxItemQuantity, MedicineID: &m1},
			{Quantity: 1, MedicineID: &m1},
		}, true},
		{"duplicates that would wrap int64", []ItemInput{
			{Quantity: math.MaxInt64, MedicineID: &m1},
			{Quantity: math.MaxInt64, MedicineID: &m1},
		}, true},
		{"limit applies per ref", []ItemInput{
			{Quantity: MaxItemQuantity, MedicineID: &m1},
			{Quantity: MaxItemQuantity, MedicineID: &m2},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateItemInputs(tt.items)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "got %v", err)
		})
	}
}
