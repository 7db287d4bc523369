package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	portsrepo "github.com/bharatbooks/gst_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/bharatbooks/gst_ledger_app/internal/core/ports/services"
	"github.com/bharatbooks/gst_ledger_app/internal/middleware"
	"github.com/bharatbooks/gst_ledger_app/internal/utils/accounting"
)

// reportingService builds statements and trial-balance style reports by
// replaying the immutable posting history.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	guard         *PostingGuard
}

// NewReportingService creates a new reporting service. The guard is shared
// with the posting side so a detected trial-balance mismatch halts postings.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, guard *PostingGuard) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		ledgerRepo:    ledgerRepo,
		guard:         guard,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// LedgerStatement replays the ledger's postings over [from, to] in
// (date, insertion) order, carrying the opening balance forward and emitting
// a signed running balance per row. The summary's closing balance equals the
// last row's running balance by construction.
func (s *reportingService) LedgerStatement(ctx context.Context, ledgerID string, from, to time.Time) (*domain.Statement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	nature := ledger.Nature()

	// Opening position: the ledger's opening balance folded with everything
	// posted strictly before the period.
	debitBefore, creditBefore, err := s.reportingRepo.AggregatePostingsBefore(ctx, ledgerID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate postings before %s: %w", from.Format(time.RFC3339), err)
	}
	openingSigned := ledger.OpeningBalance.Add(accounting.SignedMovement(nature, debitBefore, creditBefore))

	postings, err := s.reportingRepo.FindPostingsForLedger(ctx, ledgerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load postings for ledger %s: %w", ledgerID, err)
	}

	rows := make([]domain.StatementRow, 0, len(postings))
	running := openingSigned
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, p := range postings {
		running = running.Add(accounting.SignedMovement(nature, p.DebitAmount, p.CreditAmount))
		totalDebit = totalDebit.Add(p.DebitAmount)
		totalCredit = totalCredit.Add(p.CreditAmount)
		rows = append(rows, domain.StatementRow{
			Date:           p.Date,
			VoucherID:      p.VoucherID,
			VoucherNumber:  p.VoucherNumber,
			Narration:      p.Narration,
			Debit:          p.DebitAmount,
			Credit:         p.CreditAmount,
			RunningBalance: running,
		})
	}

	opening := domain.ResolveBalance(openingSigned, nature)
	closing := domain.ResolveBalance(running, nature)

	statement := &domain.Statement{
		LedgerID:   ledgerID,
		LedgerName: ledger.Name,
		Nature:     nature,
		FromDate:   from,
		ToDate:     to,
		Rows:       rows,
		Summary: domain.StatementSummary{
			OpeningBalance:   opening.Amount,
			OpeningSide:      opening.Side,
			TotalDebit:       totalDebit,
			TotalCredit:      totalCredit,
			ClosingBalance:   closing.Amount,
			ClosingSide:      closing.Side,
			TransactionCount: len(rows),
		},
	}

	logger.Debug("Ledger statement built",
		slog.String("ledger_id", ledgerID),
		slog.Int("row_count", len(rows)))
	return statement, nil
}

// TrialBalance computes every active ledger's closing balance as of a date
// and places the magnitude in the debit or credit column per its resolved
// side. A non-zero column difference trips the posting guard: it means an
// unbalanced voucher reached the books or the fold is broken, and the system
// is no longer trustworthy for further postings.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	activities, err := s.reportingRepo.LedgerActivityAsOf(ctx, asOf, false)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ledger activity: %w", err)
	}

	report := &domain.TrialBalanceReport{AsOf: asOf}
	for _, activity := range activities {
		nature := activity.Ledger.Nature()
		closingSigned := activity.Ledger.OpeningBalance.
			Add(accounting.SignedMovement(nature, activity.TotalDebit, activity.TotalCredit))
		closing := domain.ResolveBalance(closingSigned, nature)

		row := domain.TrialBalanceRow{
			LedgerID:   activity.Ledger.LedgerID,
			LedgerName: activity.Ledger.Name,
			LedgerCode: activity.Ledger.Code,
			Group:      activity.Ledger.Group,
		}
		if closing.Side == domain.DebitSide {
			row.Debit = closing.Amount
		} else {
			row.Credit = closing.Amount
		}
		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}

	// Postings always cancel out across ledgers and opening balances come from
	// a balanced prior-period close, so any residual means a corrupt fold or
	// an unvalidated posting. It is surfaced, never rounded away.
	report.Difference = report.TotalDebit.Sub(report.TotalCredit)
	if !report.Difference.IsZero() {
		s.guard.Halt(fmt.Sprintf("trial balance difference %s as of %s",
			report.Difference.String(), asOf.Format(time.RFC3339)))
		logger.Error("Trial balance does not balance, postings halted",
			slog.String("difference", report.Difference.String()),
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return report, nil
	}

	logger.Info("Trial balance report generated",
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// ProfitAndLoss nets income against expense activity over a period.
func (s *reportingService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	activities, err := s.reportingRepo.LedgerActivityBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}

	report := &domain.PAndLReport{FromDate: from, ToDate: to}
	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	for _, activity := range activities {
		net := accounting.SignedMovement(activity.Ledger.Nature(), activity.TotalDebit, activity.TotalCredit)
		amount := domain.LedgerAmount{
			LedgerID:  activity.Ledger.LedgerID,
			Name:      activity.Ledger.Name,
			NetAmount: net,
		}
		switch activity.Ledger.Group {
		case domain.Income:
			report.Income = append(report.Income, amount)
			totalIncome = totalIncome.Add(net)
		case domain.Expense:
			report.Expenses = append(report.Expenses, amount)
			totalExpenses = totalExpenses.Add(net)
		}
	}
	report.NetProfit = totalIncome.Sub(totalExpenses)

	logger.Info("Profit and loss report generated",
		slog.Int("income_ledgers", len(report.Income)),
		slog.Int("expense_ledgers", len(report.Expenses)))
	return report, nil
}

// BalanceSheet lists asset, liability and equity closing balances as of a date.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	activities, err := s.reportingRepo.LedgerActivityAsOf(ctx, asOf, false)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	report := &domain.BalanceSheetReport{AsOf: asOf}
	for _, activity := range activities {
		nature := activity.Ledger.Nature()
		closing := activity.Ledger.OpeningBalance.
			Add(accounting.SignedMovement(nature, activity.TotalDebit, activity.TotalCredit))
		amount := domain.LedgerAmount{
			LedgerID:  activity.Ledger.LedgerID,
			Name:      activity.Ledger.Name,
			NetAmount: closing,
		}
		switch activity.Ledger.Group {
		case domain.Asset:
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(closing)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(closing)
		case domain.Equity:
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(closing)
		}
	}

	logger.Info("Balance sheet report generated",
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("asset_ledgers", len(report.Assets)))
	return report, nil
}
