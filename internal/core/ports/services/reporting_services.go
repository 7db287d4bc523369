package services

import (
	"context"
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
)

// ReportingSvcFacade defines the read-side reports over committed postings.
type ReportingSvcFacade interface {
	LedgerStatement(ctx context.Context, ledgerID string, from, to time.Time) (*domain.Statement, error)
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)
	ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)
}
