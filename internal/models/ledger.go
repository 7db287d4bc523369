package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is the database row for a ledger account.
type Ledger struct {
	LedgerID           string          `db:"ledger_id"`
	Name               string          `db:"name"`
	Code               string          `db:"code"`
	AccountGroup       string          `db:"account_group"`
	OpeningBalance     decimal.Decimal `db:"opening_balance"`
	OpeningBalanceDate time.Time       `db:"opening_balance_date"`
	Description        string          `db:"description"`
	IsActive           bool            `db:"is_active"`
	Balance            decimal.Decimal `db:"balance"` // Cached signed projection of postings
	AuditFields
}
