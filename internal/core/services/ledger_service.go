package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bharatbooks/gst_ledger_app/internal/apperrors"
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	portsrepo "github.com/bharatbooks/gst_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/bharatbooks/gst_ledger_app/internal/core/ports/services"
	"github.com/bharatbooks/gst_ledger_app/internal/dto"
	"github.com/bharatbooks/gst_ledger_app/internal/middleware"
)

// ledgerService provides ledger setup and lookup operations.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateLedger creates a new ledger account. The opening balance is a
// non-negative magnitude that sits on the nature side derived from the group.
func (s *ledgerService) CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, creatorUserID string) (*domain.Ledger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	openingDate := req.OpeningBalanceDate
	if openingDate.IsZero() {
		openingDate = now
	}

	ledger := domain.Ledger{
		LedgerID:           uuid.NewString(),
		Name:               req.Name,
		Code:               req.Code,
		Group:              req.Group,
		OpeningBalance:     req.OpeningBalance.Round(2),
		OpeningBalanceDate: openingDate,
		Description:        req.Description,
		IsActive:           true,
		Balance:            req.OpeningBalance.Round(2), // Signed; opening sits on the nature side
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.ledgerRepo.SaveLedger(ctx, ledger); err != nil {
		logger.Error("Failed to save ledger", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save ledger: %w", err)
	}

	logger.Info("Ledger created", slog.String("ledger_id", ledger.LedgerID), slog.String("group", string(ledger.Group)))
	return &ledger, nil
}

// GetLedgerByID retrieves a ledger by ID.
func (s *ledgerService) GetLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger %s: %w", ledgerID, err)
	}
	return ledger, nil
}

// ListLedgers lists ledgers, optionally including deactivated ones.
func (s *ledgerService) ListLedgers(ctx context.Context, includeInactive bool) ([]domain.Ledger, error) {
	ledgers, err := s.ledgerRepo.ListLedgers(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	return ledgers, nil
}

// UpdateLedger edits static ledger fields. Opening balance and date changes
// go through the repository's transactional path, which re-checks the
// no-postings precondition under a row lock; name and description edits never
// touch the opening columns or the cached balance.
func (s *ledgerService) UpdateLedger(ctx context.Context, ledgerID string, req dto.UpdateLedgerRequest, userID string) (*domain.Ledger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if req.OpeningBalance != nil || req.OpeningBalanceDate != nil {
		newOpening := ledger.OpeningBalance
		if req.OpeningBalance != nil {
			if req.OpeningBalance.IsNegative() {
				return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
			}
			newOpening = req.OpeningBalance.Round(2)
		}
		newDate := ledger.OpeningBalanceDate
		if req.OpeningBalanceDate != nil {
			newDate = *req.OpeningBalanceDate
		}

		if err := s.ledgerRepo.UpdateLedgerOpening(ctx, ledgerID, newOpening, newDate, userID, now); err != nil {
			logger.Error("Failed to update opening balance", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			return nil, err
		}
		ledger.Balance = ledger.Balance.Add(newOpening.Sub(ledger.OpeningBalance))
		ledger.OpeningBalance = newOpening
		ledger.OpeningBalanceDate = newDate
		ledger.LastUpdatedAt = now
		ledger.LastUpdatedBy = userID
	}

	updated := false
	if req.Name != nil {
		ledger.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		ledger.Description = *req.Description
		updated = true
	}

	if updated {
		ledger.LastUpdatedAt = now
		ledger.LastUpdatedBy = userID
		if err := s.ledgerRepo.UpdateLedger(ctx, *ledger); err != nil {
			logger.Error("Failed to update ledger", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to update ledger: %w", err)
		}
	}

	logger.Info("Ledger updated", slog.String("ledger_id", ledgerID))
	return ledger, nil
}

// DeactivateLedger soft-deactivates a ledger. A ledger carrying a non-zero
// balance cannot be deactivated, which keeps the trial balance over active
// ledgers complete.
func (s *ledgerService) DeactivateLedger(ctx context.Context, ledgerID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return err
	}
	if !ledger.Balance.IsZero() {
		return fmt.Errorf("%w: ledger %s has a non-zero balance", apperrors.ErrConflict, ledgerID)
	}

	if err := s.ledgerRepo.SetLedgerActive(ctx, ledgerID, false, userID); err != nil {
		logger.Error("Failed to deactivate ledger", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to deactivate ledger: %w", err)
	}

	logger.Info("Ledger deactivated", slog.String("ledger_id", ledgerID))
	return nil
}
