package services

import (
	"context"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/bharatbooks/gst_ledger_app/internal/dto"
)

// LedgerSvcFacade defines ledger setup and lookup operations.
type LedgerSvcFacade interface {
	CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, creatorUserID string) (*domain.Ledger, error)
	GetLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)
	ListLedgers(ctx context.Context, includeInactive bool) ([]domain.Ledger, error)
	// UpdateLedger edits static fields. Opening balance changes are rejected
	// once the ledger has postings.
	UpdateLedger(ctx context.Context, ledgerID string, req dto.UpdateLedgerRequest, userID string) (*domain.Ledger, error)
	// DeactivateLedger soft-deactivates; ledgers referenced by postings are
	// never physically deleted.
	DeactivateLedger(ctx context.Context, ledgerID string, userID string) error
}
