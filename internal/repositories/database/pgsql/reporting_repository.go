package pgsql

import (
	"context"
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/apperrors"
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	portsrepo "github.com/bharatbooks/gst_ledger_app/internal/core/ports/repositories"
	"github.com/bharatbooks/gst_ledger_app/internal/models"
	"github.com/bharatbooks/gst_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// FindPostingsForLedger returns the ledger's postings within the period,
// oldest first, with narration and voucher number joined in from the voucher
// header. Posting rows only ever exist for vouchers that reached POSTED, so
// no partially applied voucher can leak into a statement.
func (r *PgxReportingRepository) FindPostingsForLedger(ctx context.Context, ledgerID string, from, to time.Time) ([]domain.Posting, error) {
	query := `
		SELECT p.posting_id, p.sequence, p.voucher_id, p.ledger_id, p.voucher_date,
		       p.debit_amount, p.credit_amount, p.running_balance, p.created_at,
		       v.narration, v.reference_number
		FROM postings p
		JOIN vouchers v ON p.voucher_id = v.voucher_id
		WHERE p.ledger_id = $1 AND p.voucher_date >= $2 AND p.voucher_date <= $3
		ORDER BY p.voucher_date, p.sequence;
	`
	rows, err := r.Pool.Query(ctx, query, ledgerID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query postings for ledger "+ledgerID, err)
	}
	defer rows.Close()

	postings := []domain.Posting{}
	for rows.Next() {
		var m models.Posting
		var narration, referenceNumber string
		err := rows.Scan(
			&m.PostingID,
			&m.Sequence,
			&m.VoucherID,
			&m.LedgerID,
			&m.VoucherDate,
			&m.DebitAmount,
			&m.CreditAmount,
			&m.RunningBalance,
			&m.CreatedAt,
			&narration,
			&referenceNumber,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan posting row for ledger "+ledgerID, err)
		}
		p := mapping.ToDomainPosting(m)
		p.Narration = narration
		p.VoucherNumber = referenceNumber
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating posting rows for ledger "+ledgerID, err)
	}
	return postings, nil
}

// AggregatePostingsBefore sums debit and credit columns strictly before the
// cutoff, used to derive a statement's opening balance.
func (r *PgxReportingRepository) AggregatePostingsBefore(ctx context.Context, ledgerID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit_amount), 0), COALESCE(SUM(credit_amount), 0)
		FROM postings
		WHERE ledger_id = $1 AND voucher_date < $2;
	`
	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, ledgerID, before).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to aggregate postings for ledger "+ledgerID, err)
	}
	return debit, credit, nil
}

const activityColumns = `l.ledger_id, l.name, l.code, l.account_group, l.opening_balance, l.opening_balance_date,
	       l.description, l.is_active, l.balance, l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
	       COALESCE(SUM(p.debit_amount), 0), COALESCE(SUM(p.credit_amount), 0)`

func (r *PgxReportingRepository) queryActivity(ctx context.Context, query string, args ...interface{}) ([]domain.LedgerActivity, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger activity", err)
	}
	defer rows.Close()

	activities := []domain.LedgerActivity{}
	for rows.Next() {
		var m models.Ledger
		var totalDebit, totalCredit decimal.Decimal
		err := rows.Scan(
			&m.LedgerID,
			&m.Name,
			&m.Code,
			&m.AccountGroup,
			&m.OpeningBalance,
			&m.OpeningBalanceDate,
			&m.Description,
			&m.IsActive,
			&m.Balance,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&totalDebit,
			&totalCredit,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger activity row", err)
		}
		activities = append(activities, domain.LedgerActivity{
			Ledger:      mapping.ToDomainLedger(m),
			TotalDebit:  totalDebit,
			TotalCredit: totalCredit,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger activity rows", err)
	}
	return activities, nil
}

// LedgerActivityAsOf returns each ledger with its posting totals up to and
// including asOf. Ledgers with no postings still appear with zero totals so
// opening balances contribute to the trial balance.
func (r *PgxReportingRepository) LedgerActivityAsOf(ctx context.Context, asOf time.Time, includeInactive bool) ([]domain.LedgerActivity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM ledgers l
		LEFT JOIN postings p ON p.ledger_id = l.ledger_id AND p.voucher_date <= $1
	`
	if !includeInactive {
		query += ` WHERE l.is_active = TRUE`
	}
	query += ` GROUP BY l.ledger_id ORDER BY l.code, l.name;`
	return r.queryActivity(ctx, query, asOf)
}

// LedgerActivityBetween returns per-ledger posting totals within the period.
// Ledgers without activity in the period are omitted.
func (r *PgxReportingRepository) LedgerActivityBetween(ctx context.Context, from, to time.Time) ([]domain.LedgerActivity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM ledgers l
		JOIN postings p ON p.ledger_id = l.ledger_id
		WHERE p.voucher_date >= $1 AND p.voucher_date <= $2
		GROUP BY l.ledger_id
		ORDER BY l.code, l.name;
	`
	return r.queryActivity(ctx, query, from, to)
}
