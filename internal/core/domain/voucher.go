package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType identifies the business transaction a voucher records.
type VoucherType string

const (
	Journal        VoucherType = "JOURNAL"
	Payment        VoucherType = "PAYMENT"
	Receipt        VoucherType = "RECEIPT"
	Contra         VoucherType = "CONTRA"
	Sales          VoucherType = "SALES"
	Purchase       VoucherType = "PURCHASE"
	GSTPayment     VoucherType = "GST_PAYMENT"
	GSTUtilization VoucherType = "GST_UTILIZATION"
	DebitNote      VoucherType = "DEBIT_NOTE"
	CreditNote     VoucherType = "CREDIT_NOTE"
	TDSPayment     VoucherType = "TDS_PAYMENT"
	TDSSettlement  VoucherType = "TDS_SETTLEMENT"
)

// HasLineItems reports whether this voucher type carries invoice line items.
func (t VoucherType) HasLineItems() bool {
	return t == Sales || t == Purchase
}

// VoucherStatus is the lifecycle state of a voucher.
type VoucherStatus string

const (
	Draft     VoucherStatus = "DRAFT"
	Posted    VoucherStatus = "POSTED"
	Cancelled VoucherStatus = "CANCELLED"
)

// Voucher represents a single business transaction composed of balanced
// ledger entries and, for invoice types, line items.
type Voucher struct {
	VoucherID       string          `json:"voucherID"` // Primary Key (UUID)
	Type            VoucherType     `json:"type"`
	Date            time.Time       `json:"date"`
	Status          VoucherStatus   `json:"status"`
	Narration       string          `json:"narration"`
	ReferenceNumber string          `json:"referenceNumber"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RoundOff        decimal.Decimal `json:"roundOff"` // Signed sub-paisa reconciliation movement

	// Reversal links. A cancelled voucher points at the voucher that reversed
	// it; a reversing voucher points back at the original.
	OriginalVoucherID  *string `json:"originalVoucherID,omitempty"`
	ReversingVoucherID *string `json:"reversingVoucherID,omitempty"`

	AuditFields

	Entries   []LedgerEntry `json:"entries,omitempty"`
	LineItems []LineItem    `json:"lineItems,omitempty"`
}

// IsReversal reports whether this voucher was created to reverse another.
func (v Voucher) IsReversal() bool {
	return v.OriginalVoucherID != nil
}

// LedgerEntry is one leg of a voucher: exactly one of DebitAmount or
// CreditAmount is non-zero.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`
	VoucherID    string          `json:"voucherID"`
	LedgerID     string          `json:"ledgerID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Notes        string          `json:"notes"`
}

// IsDebit reports whether this entry moves its ledger on the debit side.
func (e LedgerEntry) IsDebit() bool {
	return e.DebitAmount.IsPositive()
}

// Amount returns the entry's single non-zero magnitude.
func (e LedgerEntry) Amount() decimal.Decimal {
	if e.IsDebit() {
		return e.DebitAmount
	}
	return e.CreditAmount
}

// LineItem is one invoice line on a Sales or Purchase voucher.
type LineItem struct {
	LineItemID    string          `json:"lineItemID"`
	VoucherID     string          `json:"voucherID"`
	Description   string          `json:"description"`
	HSNCode       string          `json:"hsnCode"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"` // quantity * rate, rounded to 2dp
	GSTRate       decimal.Decimal `json:"gstRate"`       // Percent
	CGSTAmount    decimal.Decimal `json:"cgstAmount"`
	SGSTAmount    decimal.Decimal `json:"sgstAmount"`
	IGSTAmount    decimal.Decimal `json:"igstAmount"`
	CessAmount    decimal.Decimal `json:"cessAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"` // taxable + all tax amounts
}

// Posting is one immutable row of a ledger's posting history, appended when a
// voucher is posted. Ledger balances are a cached projection of these rows.
type Posting struct {
	PostingID      string          `json:"postingID"`
	Sequence       int64           `json:"sequence"` // Insertion order; tie-break for same-day postings
	VoucherID      string          `json:"voucherID"`
	LedgerID       string          `json:"ledgerID"`
	Date           time.Time       `json:"date"`
	Narration      string          `json:"narration"`
	VoucherNumber  string          `json:"voucherNumber"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	RunningBalance decimal.Decimal `json:"runningBalance"` // Signed; positive = nature side
	CreatedAt      time.Time       `json:"createdAt"`
}
