package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/apperrors"
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	portsrepo "github.com/bharatbooks/gst_ledger_app/internal/core/ports/repositories"
	"github.com/bharatbooks/gst_ledger_app/internal/models"
	"github.com/bharatbooks/gst_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `ledger_id, name, code, account_group, opening_balance, opening_balance_date,
	       description, is_active, balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedger(row pgx.Row) (models.Ledger, error) {
	var m models.Ledger
	err := row.Scan(
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
	)
	return m, err
}

// SaveLedger inserts a new ledger account row.
func (r *PgxLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	m := mapping.ToModelLedger(ledger)
	query := `
		INSERT INTO ledgers (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LedgerID,
		m.Name,
		m.Code,
		m.AccountGroup,
		m.OpeningBalance,
		m.OpeningBalanceDate,
		m.Description,
		m.IsActive,
		m.Balance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to insert ledger "+m.LedgerID)
	}
	return nil
}

// FindLedgerByID retrieves a single ledger by its ID.
func (r *PgxLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE ledger_id = $1;`
	m, err := scanLedger(r.Pool.QueryRow(ctx, query, ledgerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger by ID "+ledgerID, err)
	}
	l := mapping.ToDomainLedger(m)
	return &l, nil
}

// FindLedgersByIDs retrieves multiple ledgers keyed by ID. Missing IDs are
// simply absent from the result map; callers decide whether that is an error.
func (r *PgxLedgerRepository) FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	if len(ledgerIDs) == 0 {
		return map[string]domain.Ledger{}, nil
	}
	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE ledger_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, ledgerIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledgers by IDs", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Ledger, len(ledgerIDs))
	for rows.Next() {
		m, err := scanLedger(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger row", err)
		}
		result[m.LedgerID] = mapping.ToDomainLedger(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger rows", err)
	}
	return result, nil
}

// ListLedgers returns all ledgers ordered by code, optionally including
// deactivated ones.
func (r *PgxLedgerRepository) ListLedgers(ctx context.Context, includeInactive bool) ([]domain.Ledger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledgers`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY code, name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledgers", err)
	}
	defer rows.Close()

	ledgers := []domain.Ledger{}
	for rows.Next() {
		m, err := scanLedger(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger row", err)
		}
		ledgers = append(ledgers, mapping.ToDomainLedger(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger rows", err)
	}
	return ledgers, nil
}

// UpdateLedger persists changes to the ledger's descriptive fields only. The
// cached balance column is owned by the posting transaction and the opening
// columns by UpdateLedgerOpening; neither is written here, so a posting that
// commits between the caller's read and this statement is never clobbered.
func (r *PgxLedgerRepository) UpdateLedger(ctx context.Context, ledger domain.Ledger) error {
	m := mapping.ToModelLedger(ledger)
	query := `
		UPDATE ledgers
		SET name = $2, code = $3, description = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE ledger_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.LedgerID,
		m.Name,
		m.Code,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to update ledger "+m.LedgerID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateLedgerOpening changes the opening balance and date inside one
// transaction: the row is locked, the no-postings precondition is re-checked
// under that lock and the cached balance moves by the opening delta.
func (r *PgxLedgerRepository) UpdateLedgerOpening(ctx context.Context, ledgerID string, opening decimal.Decimal, openingDate time.Time, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	locked, err := findLedgersForUpdate(ctx, tx, []string{ledgerID})
	if err != nil {
		return err
	}
	current := locked[ledgerID]

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM postings WHERE ledger_id = $1;`, ledgerID).Scan(&count); err != nil {
		return apperrors.NewAppError(500, "failed to count postings for ledger "+ledgerID, err)
	}
	if count > 0 {
		return apperrors.NewAppError(409, "opening balance is immutable once postings exist", apperrors.ErrConflict)
	}

	delta := opening.Sub(current.OpeningBalance)
	query := `
		UPDATE ledgers
		SET opening_balance = $2, opening_balance_date = $3, balance = balance + $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE ledger_id = $1;
	`
	if _, err := tx.Exec(ctx, query, ledgerID, opening, openingDate, delta, updatedAt, updatedBy); err != nil {
		return translateError(err, "failed to update opening balance for ledger "+ledgerID)
	}

	return r.Commit(ctx, tx)
}

// SetLedgerActive toggles the soft-deactivate flag.
func (r *PgxLedgerRepository) SetLedgerActive(ctx context.Context, ledgerID string, active bool, updatedBy string) error {
	query := `
		UPDATE ledgers
		SET is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE ledger_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, ledgerID, active, time.Now().UTC(), updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set active flag for ledger "+ledgerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// findLedgersForUpdate locks the given ledgers inside tx, ordered by ledger ID
// so concurrent postings always acquire locks in the same order.
func findLedgersForUpdate(ctx context.Context, tx pgx.Tx, ledgerIDs []string) (map[string]models.Ledger, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledgers
		WHERE ledger_id = ANY($1)
		ORDER BY ledger_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, ledgerIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock ledgers for update", err)
	}
	defer rows.Close()

	locked := make(map[string]models.Ledger, len(ledgerIDs))
	for rows.Next() {
		m, err := scanLedger(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked ledger row", err)
		}
		locked[m.LedgerID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked ledger rows", err)
	}
	if len(locked) != len(ledgerIDs) {
		return nil, apperrors.ErrNotFound
	}
	return locked, nil
}

// updateLedgerBalancesInTx writes the new cached signed balances under the
// locks held by findLedgersForUpdate.
func updateLedgerBalancesInTx(ctx context.Context, tx pgx.Tx, balances map[string]decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	batch := &pgx.Batch{}
	query := `
		UPDATE ledgers
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE ledger_id = $1;
	`
	for ledgerID, balance := range balances {
		batch.Queue(query, ledgerID, balance, updatedAt, updatedBy)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to update ledger balances", err)
	}
	return nil
}
