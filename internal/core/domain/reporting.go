package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementRow is one transaction line of a ledger statement.
type StatementRow struct {
	Date           time.Time       `json:"date"`
	VoucherID      string          `json:"voucherID"`
	VoucherNumber  string          `json:"voucherNumber"`
	Narration      string          `json:"narration"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"` // Signed; positive = nature side
}

// StatementSummary carries the opening/closing figures for a statement period.
type StatementSummary struct {
	OpeningBalance   decimal.Decimal `json:"openingBalance"` // Magnitude
	OpeningSide      BalanceSide     `json:"openingSide"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	ClosingBalance   decimal.Decimal `json:"closingBalance"` // Magnitude
	ClosingSide      BalanceSide     `json:"closingSide"`
	TransactionCount int             `json:"transactionCount"`
}

// Statement is a ledger's activity over a period with running balances.
type Statement struct {
	LedgerID   string           `json:"ledgerID"`
	LedgerName string           `json:"ledgerName"`
	Nature     LedgerNature     `json:"nature"`
	FromDate   time.Time        `json:"fromDate"`
	ToDate     time.Time        `json:"toDate"`
	Rows       []StatementRow   `json:"rows"`
	Summary    StatementSummary `json:"summary"`
}

// TrialBalanceRow places one ledger's closing balance in its column.
type TrialBalanceRow struct {
	LedgerID   string          `json:"ledgerID"`
	LedgerName string          `json:"ledgerName"`
	LedgerCode string          `json:"ledgerCode"`
	Group      AccountGroup    `json:"group"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
}

// TrialBalanceReport aggregates every active ledger's closing balance as of a
// date. Difference is zero for a consistent ledger set; a non-zero value is an
// invariant violation and is surfaced, never rounded away.
type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Difference  decimal.Decimal   `json:"difference"`
}

// LedgerActivity pairs a ledger with its aggregated posting totals up to a
// cutoff date; the raw material for trial balance and derived reports.
type LedgerActivity struct {
	Ledger      Ledger
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// LedgerAmount is a ledger with its net amount for P&L / balance sheet rows.
type LedgerAmount struct {
	LedgerID  string          `json:"ledgerID"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report over a period.
type PAndLReport struct {
	FromDate  time.Time       `json:"fromDate"`
	ToDate    time.Time       `json:"toDate"`
	Income    []LedgerAmount  `json:"income"`
	Expenses  []LedgerAmount  `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// BalanceSheetReport represents a balance sheet as of a date.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []LedgerAmount  `json:"assets"`
	Liabilities      []LedgerAmount  `json:"liabilities"`
	Equity           []LedgerAmount  `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}
