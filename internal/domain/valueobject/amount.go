package valueobject

import "github.com/shopspring/decimal"

// Amounts are stored as decimal(15,2), so anything at or above 10^13 in
// magnitude cannot be a real movement or document total.
const (
	maxAmountDigits   = 13
	maxAmountExponent = 15
)

var amountCeiling = decimal.New(1, maxAmountDigits)

// IsStorableAmount reports whether the amount fits the money columns. The
// exponent is checked before any comparison because rescaling a value like
// 1e20000000 allocates millions of digits.
func IsStorableAmount(amount decimal.Decimal) bool {
	exp := amount.Exponent()
	if exp > maxAmountExponent || exp < -maxAmountExponent {
		return false
	}
	return amount.Abs().LessThan(amountCeiling)
}
