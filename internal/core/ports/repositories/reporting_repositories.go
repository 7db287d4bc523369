package repositories

import (
	"context"
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepositoryFacade defines the read paths over committed postings.
// Implementations must only expose postings of POSTED or CANCELLED vouchers,
// never a partially applied one.
type ReportingRepositoryFacade interface {
	// FindPostingsForLedger returns the ledger's postings with
	// from <= date <= to, ordered by (date, insertion sequence).
	FindPostingsForLedger(ctx context.Context, ledgerID string, from, to time.Time) ([]domain.Posting, error)

	// AggregatePostingsBefore sums the ledger's debit and credit columns for
	// postings strictly before the cutoff.
	AggregatePostingsBefore(ctx context.Context, ledgerID string, before time.Time) (debit, credit decimal.Decimal, err error)

	// LedgerActivityAsOf returns every ledger (active only unless
	// includeInactive) with its posting totals up to and including asOf.
	LedgerActivityAsOf(ctx context.Context, asOf time.Time, includeInactive bool) ([]domain.LedgerActivity, error)

	// LedgerActivityBetween returns per-ledger posting totals within a period,
	// used by the profit and loss report.
	LedgerActivityBetween(ctx context.Context, from, to time.Time) ([]domain.LedgerActivity, error)
}
