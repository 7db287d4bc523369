package dto

import (
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is one leg of a voucher being created. Exactly one of
// DebitAmount or CreditAmount must be non-zero.
type CreateEntryRequest struct {
	LedgerID     string          `json:"ledgerID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Notes        string          `json:"notes"`
}

// CreateLineItemRequest is one invoice line on a sales/purchase voucher. Tax
// amounts are computed server-side from the rates and place of supply.
type CreateLineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	HSNCode     string          `json:"hsnCode"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
	GSTRate     decimal.Decimal `json:"gstRate"`
	CessRate    decimal.Decimal `json:"cessRate"`
}

// CreateVoucherRequest defines the data needed to create a draft voucher.
type CreateVoucherRequest struct {
	Type            domain.VoucherType `json:"type" binding:"required,oneof=JOURNAL PAYMENT RECEIPT CONTRA SALES PURCHASE GST_PAYMENT GST_UTILIZATION DEBIT_NOTE CREDIT_NOTE TDS_PAYMENT TDS_SETTLEMENT"`
	Date            time.Time          `json:"date" binding:"required"`
	Narration       string             `json:"narration" binding:"required"`
	ReferenceNumber string             `json:"referenceNumber"`

	Entries []CreateEntryRequest `json:"entries" binding:"required,min=2,dive"`

	// Sales/Purchase only.
	LineItems     []CreateLineItemRequest `json:"lineItems,omitempty" binding:"omitempty,dive"`
	SupplierState string                  `json:"supplierState,omitempty"`
	PlaceOfSupply string                  `json:"placeOfSupply,omitempty"`
}

// EntryResponse is one voucher leg in API responses.
type EntryResponse struct {
	EntryID      string          `json:"entryID"`
	LedgerID     string          `json:"ledgerID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Notes        string          `json:"notes,omitempty"`
}

// LineItemResponse is one invoice line in API responses.
type LineItemResponse struct {
	LineItemID    string          `json:"lineItemID"`
	Description   string          `json:"description"`
	HSNCode       string          `json:"hsnCode,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	GSTRate       decimal.Decimal `json:"gstRate"`
	CGSTAmount    decimal.Decimal `json:"cgstAmount"`
	SGSTAmount    decimal.Decimal `json:"sgstAmount"`
	IGSTAmount    decimal.Decimal `json:"igstAmount"`
	CessAmount    decimal.Decimal `json:"cessAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID          string               `json:"voucherID"`
	Type               domain.VoucherType   `json:"type"`
	Date               time.Time            `json:"date"`
	Status             domain.VoucherStatus `json:"status"`
	Narration          string               `json:"narration"`
	ReferenceNumber    string               `json:"referenceNumber,omitempty"`
	TotalAmount        decimal.Decimal      `json:"totalAmount"`
	TotalInWords       string               `json:"totalInWords,omitempty"`
	RoundOff           decimal.Decimal      `json:"roundOff"`
	OriginalVoucherID  *string              `json:"originalVoucherID,omitempty"`
	ReversingVoucherID *string              `json:"reversingVoucherID,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	CreatedBy          string               `json:"createdBy"`
	Entries            []EntryResponse      `json:"entries,omitempty"`
	LineItems          []LineItemResponse   `json:"lineItems,omitempty"`
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse.
// TotalInWords is filled by the handler at the presentation boundary.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	resp := VoucherResponse{
		VoucherID:          v.VoucherID,
		Type:               v.Type,
		Date:               v.Date,
		Status:             v.Status,
		Narration:          v.Narration,
		ReferenceNumber:    v.ReferenceNumber,
		TotalAmount:        v.TotalAmount,
		RoundOff:           v.RoundOff,
		OriginalVoucherID:  v.OriginalVoucherID,
		ReversingVoucherID: v.ReversingVoucherID,
		CreatedAt:          v.CreatedAt,
		CreatedBy:          v.CreatedBy,
	}
	for _, e := range v.Entries {
		resp.Entries = append(resp.Entries, EntryResponse{
			EntryID:      e.EntryID,
			LedgerID:     e.LedgerID,
			DebitAmount:  e.DebitAmount,
			CreditAmount: e.CreditAmount,
			Notes:        e.Notes,
		})
	}
	for _, li := range v.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			LineItemID:    li.LineItemID,
			Description:   li.Description,
			HSNCode:       li.HSNCode,
			Quantity:      li.Quantity,
			Rate:          li.Rate,
			TaxableAmount: li.TaxableAmount,
			GSTRate:       li.GSTRate,
			CGSTAmount:    li.CGSTAmount,
			SGSTAmount:    li.SGSTAmount,
			IGSTAmount:    li.IGSTAmount,
			CessAmount:    li.CessAmount,
			TotalAmount:   li.TotalAmount,
		})
	}
	return resp
}

// ListVouchersParams holds query parameters for listing vouchers.
type ListVouchersParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
}

// ListVouchersResponse is a page of vouchers with the next cursor.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}
