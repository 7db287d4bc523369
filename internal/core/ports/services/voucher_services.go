package services

import (
	"context"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/bharatbooks/gst_ledger_app/internal/dto"
)

// VoucherSvcFacade defines voucher lifecycle operations: draft creation,
// posting, reversal-only cancellation and lookup.
type VoucherSvcFacade interface {
	CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error)
	GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)
	// PostVoucher validates a draft and atomically applies it to the affected
	// ledgers; the irreversible transition DRAFT -> POSTED.
	PostVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error)
	// ReverseVoucher cancels a posted voucher by posting an equal-and-opposite
	// voucher; the original is never mutated or deleted.
	ReverseVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error)
}
