package repositories

import (
	"context"
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepositoryFacade defines persistence operations for ledger accounts.
type LedgerRepositoryFacade interface {
	SaveLedger(ctx context.Context, ledger domain.Ledger) error
	FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)
	FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error)
	ListLedgers(ctx context.Context, includeInactive bool) ([]domain.Ledger, error)
	// UpdateLedger persists changes to descriptive fields (name, code,
	// description). It never writes the opening columns or the cached balance.
	UpdateLedger(ctx context.Context, ledger domain.Ledger) error
	// UpdateLedgerOpening atomically changes the opening balance and date,
	// re-checking under a row lock that no postings exist, and moves the
	// cached balance by the opening delta. ErrConflict once postings exist.
	UpdateLedgerOpening(ctx context.Context, ledgerID string, opening decimal.Decimal, openingDate time.Time, updatedBy string, updatedAt time.Time) error
	SetLedgerActive(ctx context.Context, ledgerID string, active bool, updatedBy string) error
}
