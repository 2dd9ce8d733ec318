package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineAmount(t *testing.T) {
	tests := []struct {
		name     string
		quantity int64
		price    string
		want     string
	}{
		{"whole", 4, "2.00", "8"},
		{"fraction", 3, "0.35", "1.05"},
		{"zero price", 7, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineAmount(tt.quantity, MustMoney(tt.price))
			assert.True(t, got.Equal(MustMoney(tt.want)), "got %s", got)
		})
	}
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "1.24", RoundMoney(MustMoney("1.235")).StringFixed(2))
	assert.Equal(t, "1.24", RoundMoney(MustMoney("1.245")).StringFixed(2))
}
