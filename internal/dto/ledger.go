package dto

import (
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLedgerRequest defines the data needed to create a new ledger.
type CreateLedgerRequest struct {
	Name               string              `json:"name" binding:"required"`
	Code               string              `json:"code" binding:"required"`
	Group              domain.AccountGroup `json:"group" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	OpeningBalance     decimal.Decimal     `json:"openingBalance"` // Non-negative magnitude on the nature side
	OpeningBalanceDate time.Time           `json:"openingBalanceDate"`
	Description        string              `json:"description"`
}

// UpdateLedgerRequest defines the data allowed for updating a ledger.
// Group and opening balance edits are rejected once postings exist.
type UpdateLedgerRequest struct {
	Name               *string          `json:"name"`
	Description        *string          `json:"description"`
	OpeningBalance     *decimal.Decimal `json:"openingBalance"`
	OpeningBalanceDate *time.Time       `json:"openingBalanceDate"`
}

// LedgerResponse defines the data returned for a ledger.
type LedgerResponse struct {
	LedgerID           string              `json:"ledgerID"`
	Name               string              `json:"name"`
	Code               string              `json:"code"`
	Group              domain.AccountGroup `json:"group"`
	Nature             domain.LedgerNature `json:"nature"`
	OpeningBalance     decimal.Decimal     `json:"openingBalance"`
	OpeningBalanceDate time.Time           `json:"openingBalanceDate"`
	Description        string              `json:"description"`
	IsActive           bool                `json:"isActive"`
	Balance            decimal.Decimal     `json:"balance"`     // Magnitude
	BalanceSide        domain.BalanceSide  `json:"balanceSide"` // Dr/Cr, recomputed from the fold
	CreatedAt          time.Time           `json:"createdAt"`
	LastUpdatedAt      time.Time           `json:"lastUpdatedAt"`
}

// ToLedgerResponse converts a domain.Ledger to LedgerResponse.
func ToLedgerResponse(l *domain.Ledger) LedgerResponse {
	balance := l.CurrentBalance()
	return LedgerResponse{
		LedgerID:           l.LedgerID,
		Name:               l.Name,
		Code:               l.Code,
		Group:              l.Group,
		Nature:             l.Nature(),
		OpeningBalance:     l.OpeningBalance,
		OpeningBalanceDate: l.OpeningBalanceDate,
		Description:        l.Description,
		IsActive:           l.IsActive,
		Balance:            balance.Amount,
		BalanceSide:        balance.Side,
		CreatedAt:          l.CreatedAt,
		LastUpdatedAt:      l.LastUpdatedAt,
	}
}

// ToListLedgerResponse converts a slice of domain.Ledger to response DTOs.
func ToListLedgerResponse(ledgers []domain.Ledger) []LedgerResponse {
	res := make([]LedgerResponse, len(ledgers))
	for i := range ledgers {
		res[i] = ToLedgerResponse(&ledgers[i])
	}
	return res
}
