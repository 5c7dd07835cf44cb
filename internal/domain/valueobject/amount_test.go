package valueobject

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsStorableAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{amount: "0", want: true},
		{amount: "-1500.50", want: true},
		{amount: "9999999999999.99", want: true},
		{amount: "-9999999999999.99", want: true},
		{amount: "10000000000000", want: false},
		{amount: "1e13", want: false},
		{amount: "1e20000000", want: false},
		{amount: "-1e20000000", want: false},
		{amount: "1e-20000000", want: false},
		{amount: "0.000000000000000001", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStorableAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestDuplicateKey_UnstorableAmountIsAbsent(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	huge := decimal.RequireFromString("1e20000000")

	key := NewDuplicateKey(&day, &huge, strPtr("pago"), nil)

	assert.Equal(t, NewDuplicateKey(&day, nil, strPtr("pago"), nil), key)
}
