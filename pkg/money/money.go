// Package money renders decimal amounts in the configured currency.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Display formats amount with the symbol and grouping of currency code.
// Unknown codes fall back to the plain decimal string.
func Display(amount decimal.Decimal, code string) string {
	cur := gomoney.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, cur.Code).Display()
}

// DisplayPtr is Display for optional amounts; nil renders as "".
func DisplayPtr(amount *decimal.Decimal, code string) string {
	if amount == nil {
		return ""
	}
	return Display(*amount, code)
}
