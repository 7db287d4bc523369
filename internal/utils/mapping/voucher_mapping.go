package mapping

import (
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/bharatbooks/gst_ledger_app/internal/models"
)

// ToModelVoucher converts a domain voucher header to its database row.
func ToModelVoucher(v domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:          v.VoucherID,
		VoucherType:        string(v.Type),
		VoucherDate:        v.Date,
		Status:             string(v.Status),
		Narration:          v.Narration,
		ReferenceNumber:    v.ReferenceNumber,
		TotalAmount:        v.TotalAmount,
		RoundOff:           v.RoundOff,
		OriginalVoucherID:  v.OriginalVoucherID,
		ReversingVoucherID: v.ReversingVoucherID,
		AuditFields:        ToModelAuditFields(v.AuditFields),
	}
}

// ToDomainVoucher converts a voucher database row to the domain form.
// Entries and line items are loaded separately.
func ToDomainVoucher(v models.Voucher) domain.Voucher {
	return domain.Voucher{
		VoucherID:          v.VoucherID,
		Type:               domain.VoucherType(v.VoucherType),
		Date:               v.VoucherDate,
		Status:             domain.VoucherStatus(v.Status),
		Narration:          v.Narration,
		ReferenceNumber:    v.ReferenceNumber,
		TotalAmount:        v.TotalAmount,
		RoundOff:           v.RoundOff,
		OriginalVoucherID:  v.OriginalVoucherID,
		ReversingVoucherID: v.ReversingVoucherID,
		AuditFields:        ToDomainAuditFields(v.AuditFields),
	}
}

// ToModelLedgerEntry converts a domain voucher leg to its database row.
func ToModelLedgerEntry(e domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      e.EntryID,
		VoucherID:    e.VoucherID,
		LedgerID:     e.LedgerID,
		DebitAmount:  e.DebitAmount,
		CreditAmount: e.CreditAmount,
		Notes:        e.Notes,
	}
}

// ToDomainLedgerEntry converts a voucher-leg row to the domain form.
func ToDomainLedgerEntry(e models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      e.EntryID,
		VoucherID:    e.VoucherID,
		LedgerID:     e.LedgerID,
		DebitAmount:  e.DebitAmount,
		CreditAmount: e.CreditAmount,
		Notes:        e.Notes,
	}
}

// ToModelLineItem converts a domain invoice line to its database row.
func ToModelLineItem(li domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID:    li.LineItemID,
		VoucherID:     li.VoucherID,
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
	}
}

// ToDomainLineItem converts an invoice-line row to the domain form.
func ToDomainLineItem(li models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:    li.LineItemID,
		VoucherID:     li.VoucherID,
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
	}
}

// ToDomainPosting converts a posting-history row to the domain form.
func ToDomainPosting(p models.Posting) domain.Posting {
	return domain.Posting{
		PostingID:      p.PostingID,
		Sequence:       p.Sequence,
		VoucherID:      p.VoucherID,
		LedgerID:       p.LedgerID,
		Date:           p.VoucherDate,
		DebitAmount:    p.DebitAmount,
		CreditAmount:   p.CreditAmount,
		RunningBalance: p.RunningBalance,
		CreatedAt:      p.CreatedAt,
	}
}
