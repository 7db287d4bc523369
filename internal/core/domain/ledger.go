package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountGroup classifies a ledger by its accounting group.
type AccountGroup string

const (
	Asset     AccountGroup = "ASSET"
	Liability AccountGroup = "LIABILITY"
	Equity    AccountGroup = "EQUITY"
	Income    AccountGroup = "INCOME"
	Expense   AccountGroup = "EXPENSE"
)

// LedgerNature is the side on which a ledger's balance normally sits.
type LedgerNature string

const (
	DebitNormal  LedgerNature = "DEBIT_NORMAL"
	CreditNormal LedgerNature = "CREDIT_NORMAL"
)

// Nature derives the normal balance side from the account group.
// Assets and expenses grow on the debit side; everything else on credit.
func (g AccountGroup) Nature() LedgerNature {
	if g == Asset || g == Expense {
		return DebitNormal
	}
	return CreditNormal
}

// BalanceSide tags which column a resolved balance belongs to.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DR"
	CreditSide BalanceSide = "CR"
)

// Opposite returns the other side.
func (s BalanceSide) Opposite() BalanceSide {
	if s == DebitSide {
		return CreditSide
	}
	return DebitSide
}

// Balance is a resolved ledger position: a non-negative magnitude tagged with
// the side it sits on. The side is always recomputed from the posting fold,
// never stored independently.
type Balance struct {
	Side   BalanceSide     `json:"side"`
	Amount decimal.Decimal `json:"amount"`
}

// Ledger represents a named account in the books.
type Ledger struct {
	LedgerID           string          `json:"ledgerID"` // Primary Key (UUID)
	Name               string          `json:"name"`
	Code               string          `json:"code"` // User-facing short code
	Group              AccountGroup    `json:"group"`
	OpeningBalance     decimal.Decimal `json:"openingBalance"` // Non-negative magnitude on the nature side
	OpeningBalanceDate time.Time       `json:"openingBalanceDate"`
	Description        string          `json:"description"`
	IsActive           bool            `json:"isActive"` // Soft-deactivate; ledgers with postings are never deleted
	AuditFields
	Balance decimal.Decimal `json:"balance"` // Cached signed projection of the posting history
}

// Nature returns the ledger's normal balance side, derived from its group.
func (l Ledger) Nature() LedgerNature {
	return l.Group.Nature()
}

// CurrentBalance resolves the cached signed balance into a side-tagged value.
func (l Ledger) CurrentBalance() Balance {
	return ResolveBalance(l.Balance, l.Nature())
}

// ResolveBalance turns a signed net position (positive = nature side) into a
// Balance tagged with the displayed side.
func ResolveBalance(signed decimal.Decimal, nature LedgerNature) Balance {
	side := DebitSide
	if nature == CreditNormal {
		side = CreditSide
	}
	if signed.IsNegative() {
		return Balance{Side: side.Opposite(), Amount: signed.Neg()}
	}
	return Balance{Side: side, Amount: signed}
}
