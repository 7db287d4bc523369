package dto

import (
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementRowResponse is one statement line with the display-ready balance.
type StatementRowResponse struct {
	Date          time.Time          `json:"date"`
	VoucherNumber string             `json:"voucherNumber"`
	Narration     string             `json:"narration"`
	Debit         decimal.Decimal    `json:"debit"`
	Credit        decimal.Decimal    `json:"credit"`
	Balance       decimal.Decimal    `json:"balance"` // Magnitude
	BalanceSide   domain.BalanceSide `json:"balanceSide"`
}

// StatementResponse is the full statement payload for a ledger and period.
type StatementResponse struct {
	LedgerID         string                 `json:"ledgerID"`
	LedgerName       string                 `json:"ledgerName"`
	FromDate         time.Time              `json:"fromDate"`
	ToDate           time.Time              `json:"toDate"`
	OpeningBalance   decimal.Decimal        `json:"openingBalance"`
	OpeningSide      domain.BalanceSide     `json:"openingSide"`
	Rows             []StatementRowResponse `json:"rows"`
	TotalDebit       decimal.Decimal        `json:"totalDebit"`
	TotalCredit      decimal.Decimal        `json:"totalCredit"`
	ClosingBalance   decimal.Decimal        `json:"closingBalance"`
	ClosingSide      domain.BalanceSide     `json:"closingSide"`
	ClosingInWords   string                 `json:"closingInWords,omitempty"`
	TransactionCount int                    `json:"transactionCount"`
}

// ToStatementResponse converts a domain.Statement to its API shape. Rows carry
// the balance magnitude with an explicit Dr/Cr side, never a bare signed
// number.
func ToStatementResponse(s *domain.Statement) StatementResponse {
	resp := StatementResponse{
		LedgerID:         s.LedgerID,
		LedgerName:       s.LedgerName,
		FromDate:         s.FromDate,
		ToDate:           s.ToDate,
		OpeningBalance:   s.Summary.OpeningBalance,
		OpeningSide:      s.Summary.OpeningSide,
		TotalDebit:       s.Summary.TotalDebit,
		TotalCredit:      s.Summary.TotalCredit,
		ClosingBalance:   s.Summary.ClosingBalance,
		ClosingSide:      s.Summary.ClosingSide,
		TransactionCount: s.Summary.TransactionCount,
	}
	for _, row := range s.Rows {
		resolved := domain.ResolveBalance(row.RunningBalance, s.Nature)
		resp.Rows = append(resp.Rows, StatementRowResponse{
			Date:          row.Date,
			VoucherNumber: row.VoucherNumber,
			Narration:     row.Narration,
			Debit:         row.Debit,
			Credit:        row.Credit,
			Balance:       resolved.Amount,
			BalanceSide:   resolved.Side,
		})
	}
	return resp
}
