package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

const PriceOnRequest = "Price on request"

var rupee = accounting.Accounting{Symbol: "₹", Precision: 2, Thousand: ",", Decimal: "."}

// Price renders a catalog price for display, e.g. ₹12,000.00. Products
// without a price show PriceOnRequest.
func Price(amount *float64) string {
	if amount == nil {
		return PriceOnRequest
	}
	return rupee.FormatMoneyDecimal(decimal.NewFromFloat(*amount))
}

// PlainPrice renders the number without the currency symbol, for form
// fields.
func PlainPrice(amount *float64) string {
	if amount == nil {
		return ""
	}
	return decimal.NewFromFloat(*amount).String()
}
