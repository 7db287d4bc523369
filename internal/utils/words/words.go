// Package words renders currency amounts as Indian-English words for
// compliance display on invoices and receipts.
package words

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNegativeAmount is returned for negative input; callers render the sign
// themselves and pass the absolute value.
var ErrNegativeAmount = errors.New("amount must not be negative")

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords converts a non-negative INR amount into words using Indian
// grouping, e.g. 9800.50 -> "Nine Thousand Eight Hundred Rupees and Fifty
// Paise Only". Zero renders as "Zero Rupees Only".
func AmountInWords(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", ErrNegativeAmount
	}

	rupees := amount.Floor().IntPart()
	paise := amount.Sub(amount.Floor()).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if paise == 100 { // 0.995 and up round into the next rupee
		rupees++
		paise = 0
	}

	if rupees == 0 && paise == 0 {
		return "Zero Rupees Only", nil
	}

	var parts []string
	if rupees > 0 {
		parts = append(parts, indianWords(rupees)+" Rupees")
	}
	if paise > 0 {
		parts = append(parts, underHundred(paise)+" Paise")
	}
	return strings.Join(parts, " and ") + " Only", nil
}

// indianWords renders a positive integer with crore/lakh/thousand/hundred
// grouping. Crore counts above 999 recurse through the same grouping.
func indianWords(n int64) string {
	var parts []string

	if n >= 10000000 {
		parts = append(parts, indianWords(n/10000000)+" Crore")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, underHundred(n/100000)+" Lakh")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, underHundred(n/1000)+" Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, underHundred(n))
	}

	return strings.Join(parts, " ")
}

func underHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}
