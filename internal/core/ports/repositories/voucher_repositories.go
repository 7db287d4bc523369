package repositories

import (
	"context"
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
)

// VoucherRepositoryFacade defines persistence operations for vouchers, their
// entries/line items and the immutable posting history.
type VoucherRepositoryFacade interface {
	// SaveDraftVoucher stores a voucher header with its entries and line items
	// in DRAFT status. No ledger balance is touched.
	SaveDraftVoucher(ctx context.Context, voucher domain.Voucher, entries []domain.LedgerEntry, lineItems []domain.LineItem) error

	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
	FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.LedgerEntry, error)
	FindLineItemsByVoucherID(ctx context.Context, voucherID string) ([]domain.LineItem, error)
	ListVouchers(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Voucher, *string, error)

	// PostVoucher atomically applies a validated voucher: locks the affected
	// ledgers in ledger-id order, appends posting rows with running balances,
	// updates cached balances and flips the voucher DRAFT -> POSTED. Either
	// every step happens or none does.
	PostVoucher(ctx context.Context, voucher domain.Voucher, entries []domain.LedgerEntry, postedBy string, postedAt time.Time) error

	// SaveReversal atomically persists and posts a reversing voucher and marks
	// the original POSTED -> CANCELLED with the reversal link.
	SaveReversal(ctx context.Context, reversing domain.Voucher, entries []domain.LedgerEntry, originalVoucherID string, updatedBy string, updatedAt time.Time) error
}
