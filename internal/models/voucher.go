package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is the database row for a voucher header.
type Voucher struct {
	VoucherID          string          `db:"voucher_id"`
	VoucherType        string          `db:"voucher_type"`
	VoucherDate        time.Time       `db:"voucher_date"`
	Status             string          `db:"status"`
	Narration          string          `db:"narration"`
	ReferenceNumber    string          `db:"reference_number"`
	TotalAmount        decimal.Decimal `db:"total_amount"`
	RoundOff           decimal.Decimal `db:"round_off"`
	OriginalVoucherID  *string         `db:"original_voucher_id"`
	ReversingVoucherID *string         `db:"reversing_voucher_id"`
	AuditFields
}

// LedgerEntry is the database row for one leg of a voucher.
type LedgerEntry struct {
	EntryID      string          `db:"entry_id"`
	VoucherID    string          `db:"voucher_id"`
	LedgerID     string          `db:"ledger_id"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	Notes        string          `db:"notes"`
}

// LineItem is the database row for one invoice line of a sales/purchase voucher.
type LineItem struct {
	LineItemID    string          `db:"line_item_id"`
	VoucherID     string          `db:"voucher_id"`
	Description   string          `db:"description"`
	HSNCode       string          `db:"hsn_code"`
	Quantity      decimal.Decimal `db:"quantity"`
	Rate          decimal.Decimal `db:"rate"`
	TaxableAmount decimal.Decimal `db:"taxable_amount"`
	GSTRate       decimal.Decimal `db:"gst_rate"`
	CGSTAmount    decimal.Decimal `db:"cgst_amount"`
	SGSTAmount    decimal.Decimal `db:"sgst_amount"`
	IGSTAmount    decimal.Decimal `db:"igst_amount"`
	CessAmount    decimal.Decimal `db:"cess_amount"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
}

// Posting is the database row for one immutable posting-history record.
// Rows are appended at post time and never updated or deleted.
type Posting struct {
	PostingID      string          `db:"posting_id"`
	Sequence       int64           `db:"sequence"`
	VoucherID      string          `db:"voucher_id"`
	LedgerID       string          `db:"ledger_id"`
	VoucherDate    time.Time       `db:"voucher_date"`
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	CreatedAt      time.Time       `db:"created_at"`
}
