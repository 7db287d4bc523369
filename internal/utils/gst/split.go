package gst

import (
	"strings"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TaxSplit is the per-line GST breakup of a taxable value.
type TaxSplit struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
	Cess decimal.Decimal `json:"cess"`
}

// Total returns the sum of all tax components.
func (s TaxSplit) Total() decimal.Decimal {
	return s.CGST.Add(s.SGST).Add(s.IGST).Add(s.Cess)
}

var (
	oneHundred = decimal.NewFromInt(100)
	twoHundred = decimal.NewFromInt(200)
)

// NormalizeStateCode prepares a state code for comparison.
func NormalizeStateCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsIntraState reports whether supply happens within the supplier's state,
// which decides CGST+SGST vs IGST for the whole voucher.
func IsIntraState(supplierState, placeOfSupply string) bool {
	return NormalizeStateCode(supplierState) == NormalizeStateCode(placeOfSupply)
}

// SplitLineTax computes the GST components for one line item.
// Intra-state supply levies half the rate as CGST and half as SGST so the two
// together sum to the full rate; inter-state levies the full rate as IGST.
// Cess is additive regardless of supply location. Each component is rounded
// half-up to 2 decimal places.
func SplitLineTax(taxable, gstRate, cessRate decimal.Decimal, supplierState, placeOfSupply string) TaxSplit {
	split := TaxSplit{}
	if IsIntraState(supplierState, placeOfSupply) {
		half := taxable.Mul(gstRate).Div(twoHundred).Round(2)
		split.CGST = half
		split.SGST = half
	} else {
		split.IGST = taxable.Mul(gstRate).Div(oneHundred).Round(2)
	}
	if cessRate.IsPositive() {
		split.Cess = taxable.Mul(cessRate).Div(oneHundred).Round(2)
	}
	return split
}

// BuildLineItem computes a complete invoice line from quantity, rate and tax
// rates. TaxableAmount is quantity*rate rounded to 2dp; TotalAmount is
// taxable plus every tax component.
func BuildLineItem(description, hsnCode string, quantity, rate, gstRate, cessRate decimal.Decimal, supplierState, placeOfSupply string) domain.LineItem {
	taxable := quantity.Mul(rate).Round(2)
	split := SplitLineTax(taxable, gstRate, cessRate, supplierState, placeOfSupply)
	return domain.LineItem{
		Description:   description,
		HSNCode:       hsnCode,
		Quantity:      quantity,
		Rate:          rate,
		TaxableAmount: taxable,
		GSTRate:       gstRate,
		CGSTAmount:    split.CGST,
		SGSTAmount:    split.SGST,
		IGSTAmount:    split.IGST,
		CessAmount:    split.Cess,
		TotalAmount:   taxable.Add(split.Total()),
	}
}

// RoundOff computes the single document-level reconciling movement that
// absorbs sub-paisa drift: round(grandTotal, 2) - grandTotal. The result is
// recorded as its own signed ledger movement so the voucher stays balanced to
// the paisa.
func RoundOff(grandTotalUnrounded decimal.Decimal) decimal.Decimal {
	return grandTotalUnrounded.Round(2).Sub(grandTotalUnrounded)
}

// DocumentTotals sums the line totals of an invoice, applies the round-off
// and returns (grandTotal, roundOff).
func DocumentTotals(lines []domain.LineItem) (decimal.Decimal, decimal.Decimal) {
	grand := decimal.Zero
	for _, line := range lines {
		grand = grand.Add(line.TotalAmount)
	}
	roundOff := RoundOff(grand)
	return grand.Add(roundOff), roundOff
}
