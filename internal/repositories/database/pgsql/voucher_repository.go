package pgsql

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/apperrors"
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	portsrepo "github.com/bharatbooks/gst_ledger_app/internal/core/ports/repositories"
	"github.com/bharatbooks/gst_ledger_app/internal/models"
	"github.com/bharatbooks/gst_ledger_app/internal/utils/accounting"
	"github.com/bharatbooks/gst_ledger_app/internal/utils/mapping"
	"github.com/bharatbooks/gst_ledger_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const voucherColumns = `voucher_id, voucher_type, voucher_date, status, narration, reference_number,
	       total_amount, round_off, original_voucher_id, reversing_voucher_id,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxVoucherRepository struct {
	BaseRepository
}

func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryFacade {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

// SaveDraftVoucher stores a voucher header with its entries and line items.
// Draft vouchers never touch ledger balances or the posting history.
func (r *PgxVoucherRepository) SaveDraftVoucher(ctx context.Context, voucher domain.Voucher, entries []domain.LedgerEntry, lineItems []domain.LineItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertVoucher(ctx, tx, voucher); err != nil {
		return err
	}
	if err := insertEntries(ctx, tx, voucher.VoucherID, entries); err != nil {
		return err
	}
	if err := insertLineItems(ctx, tx, voucher.VoucherID, lineItems); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertVoucher(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	m := mapping.ToModelVoucher(voucher)
	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.VoucherID,
		m.VoucherType,
		m.VoucherDate,
		m.Status,
		m.Narration,
		m.ReferenceNumber,
		m.TotalAmount,
		m.RoundOff,
		m.OriginalVoucherID,
		m.ReversingVoucherID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to insert voucher "+m.VoucherID)
	}
	return nil
}

func insertEntries(ctx context.Context, tx pgx.Tx, voucherID string, entries []domain.LedgerEntry) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO ledger_entries (entry_id, voucher_id, ledger_id, debit_amount, credit_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, e := range entries {
		m := mapping.ToModelLedgerEntry(e)
		batch.Queue(query, m.EntryID, voucherID, m.LedgerID, m.DebitAmount, m.CreditAmount, m.Notes)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert entries for voucher "+voucherID, err)
	}
	return nil
}

func insertLineItems(ctx context.Context, tx pgx.Tx, voucherID string, lineItems []domain.LineItem) error {
	if len(lineItems) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO line_items (
			line_item_id, voucher_id, description, hsn_code, quantity, rate, taxable_amount,
			gst_rate, cgst_amount, sgst_amount, igst_amount, cess_amount, total_amount
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, li := range lineItems {
		m := mapping.ToModelLineItem(li)
		batch.Queue(query,
			m.LineItemID, voucherID, m.Description, m.HSNCode, m.Quantity, m.Rate, m.TaxableAmount,
			m.GSTRate, m.CGSTAmount, m.SGSTAmount, m.IGSTAmount, m.CessAmount, m.TotalAmount,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert line items for voucher "+voucherID, err)
	}
	return nil
}

// PostVoucher applies a validated draft voucher inside a single database
// transaction: lock the affected ledgers in ledger-id order, append posting
// rows carrying per-ledger running balances, write the new cached balances and
// flip the voucher status to POSTED. Either every step happens or none does.
func (r *PgxVoucherRepository) PostVoucher(ctx context.Context, voucher domain.Voucher, entries []domain.LedgerEntry, postedBy string, postedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := applyEntries(ctx, tx, voucher, entries, postedBy, postedAt); err != nil {
		return err
	}

	statusQuery := `
		UPDATE vouchers
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE voucher_id = $1 AND status = $5;
	`
	tag, err := tx.Exec(ctx, statusQuery, voucher.VoucherID, string(domain.Posted), postedAt, postedBy, string(domain.Draft))
	if err != nil {
		return translateError(err, "failed to mark voucher "+voucher.VoucherID+" as posted")
	}
	if tag.RowsAffected() == 0 {
		// Lost a race: another caller already posted or reversed it.
		return apperrors.NewAppError(409, "voucher "+voucher.VoucherID+" is no longer a draft", apperrors.ErrConflict)
	}

	return r.Commit(ctx, tx)
}

// SaveReversal persists a reversing voucher, posts it, and marks the original
// voucher CANCELLED with the reversal link, all in one transaction.
func (r *PgxVoucherRepository) SaveReversal(ctx context.Context, reversing domain.Voucher, entries []domain.LedgerEntry, originalVoucherID string, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// The original must still be POSTED; flipping it first closes the window
	// for a concurrent second reversal.
	cancelQuery := `
		UPDATE vouchers
		SET status = $2, reversing_voucher_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE voucher_id = $1 AND status = $6;
	`
	tag, err := tx.Exec(ctx, cancelQuery, originalVoucherID, string(domain.Cancelled), reversing.VoucherID, updatedAt, updatedBy, string(domain.Posted))
	if err != nil {
		return translateError(err, "failed to cancel voucher "+originalVoucherID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(409, "voucher "+originalVoucherID+" is not posted or already reversed", apperrors.ErrConflict)
	}

	reversing.Status = domain.Posted
	if err := insertVoucher(ctx, tx, reversing); err != nil {
		return err
	}
	if err := insertEntries(ctx, tx, reversing.VoucherID, entries); err != nil {
		return err
	}
	if err := applyEntries(ctx, tx, reversing, entries, updatedBy, updatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// applyEntries does the balance-changing half of posting: lock ledgers, fold
// the entries into running balances, append posting rows, store new cached
// balances. Callers own the voucher status transition.
func applyEntries(ctx context.Context, tx pgx.Tx, voucher domain.Voucher, entries []domain.LedgerEntry, postedBy string, postedAt time.Time) error {
	ledgerIDs := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.LedgerID]; !ok {
			seen[e.LedgerID] = struct{}{}
			ledgerIDs = append(ledgerIDs, e.LedgerID)
		}
	}
	sort.Strings(ledgerIDs)

	lockedLedgers, err := findLedgersForUpdate(ctx, tx, ledgerIDs)
	if err != nil {
		return err
	}

	// Running balances start from the locked balances and advance entry by
	// entry. Entries are sorted by ID so replays are deterministic.
	running := make(map[string]decimal.Decimal, len(lockedLedgers))
	for id, l := range lockedLedgers {
		running[id] = l.Balance
	}
	sorted := make([]domain.LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EntryID < sorted[j].EntryID })

	batch := &pgx.Batch{}
	postingQuery := `
		INSERT INTO postings (posting_id, voucher_id, ledger_id, voucher_date, debit_amount, credit_amount, running_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, e := range sorted {
		ledger, ok := lockedLedgers[e.LedgerID]
		if !ok {
			return apperrors.NewAppError(500, "locked ledger "+e.LedgerID+" missing during posting", nil)
		}
		nature := domain.AccountGroup(ledger.AccountGroup).Nature()
		newBalance := running[e.LedgerID].Add(accounting.SignedEntryAmount(nature, e))
		running[e.LedgerID] = newBalance

		batch.Queue(postingQuery,
			uuid.NewString(),
			voucher.VoucherID,
			e.LedgerID,
			voucher.Date,
			e.DebitAmount,
			e.CreditAmount,
			newBalance,
			postedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return translateError(err, "failed to insert postings for voucher "+voucher.VoucherID)
	}

	return updateLedgerBalancesInTx(ctx, tx, running, postedBy, postedAt)
}

// FindVoucherByID retrieves a voucher header by its ID.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`
	m, err := scanVoucher(r.Pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find voucher by ID "+voucherID, err)
	}
	v := mapping.ToDomainVoucher(m)
	return &v, nil
}

func scanVoucher(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	err := row.Scan(
		&m.VoucherID,
		&m.VoucherType,
		&m.VoucherDate,
		&m.Status,
		&m.Narration,
		&m.ReferenceNumber,
		&m.TotalAmount,
		&m.RoundOff,
		&m.OriginalVoucherID,
		&m.ReversingVoucherID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindEntriesByVoucherID retrieves all ledger entries of a voucher.
func (r *PgxVoucherRepository) FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT entry_id, voucher_id, ledger_id, debit_amount, credit_amount, notes
		FROM ledger_entries
		WHERE voucher_id = $1
		ORDER BY entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for voucher "+voucherID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(&m.EntryID, &m.VoucherID, &m.LedgerID, &m.DebitAmount, &m.CreditAmount, &m.Notes); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row for voucher "+voucherID, err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows for voucher "+voucherID, err)
	}
	return entries, nil
}

// FindLineItemsByVoucherID retrieves all invoice lines of a voucher.
func (r *PgxVoucherRepository) FindLineItemsByVoucherID(ctx context.Context, voucherID string) ([]domain.LineItem, error) {
	query := `
		SELECT line_item_id, voucher_id, description, hsn_code, quantity, rate, taxable_amount,
		       gst_rate, cgst_amount, sgst_amount, igst_amount, cess_amount, total_amount
		FROM line_items
		WHERE voucher_id = $1
		ORDER BY line_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for voucher "+voucherID, err)
	}
	defer rows.Close()

	lineItems := []domain.LineItem{}
	for rows.Next() {
		var m models.LineItem
		err := rows.Scan(
			&m.LineItemID,
			&m.VoucherID,
			&m.Description,
			&m.HSNCode,
			&m.Quantity,
			&m.Rate,
			&m.TaxableAmount,
			&m.GSTRate,
			&m.CGSTAmount,
			&m.SGSTAmount,
			&m.IGSTAmount,
			&m.CessAmount,
			&m.TotalAmount,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row for voucher "+voucherID, err)
		}
		lineItems = append(lineItems, mapping.ToDomainLineItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows for voucher "+voucherID, err)
	}
	return lineItems, nil
}

// ListVouchers retrieves a page of voucher headers using token-based keyset
// pagination ordered by (voucher_date DESC, created_at DESC).
func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Voucher, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether another page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + voucherColumns + ` FROM vouchers`
	filterClause := `WHERE 1=1`
	if !includeReversals {
		filterClause += ` AND original_voucher_id IS NULL AND status != '` + string(domain.Cancelled) + `'`
	}
	orderByClause := `ORDER BY voucher_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (voucher_date, created_at) < ($1, $2)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query vouchers", err)
	}
	defer rows.Close()

	modelVouchers := make([]models.Voucher, 0, fetchLimit)
	for rows.Next() {
		m, err := scanVoucher(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan voucher row", err)
		}
		modelVouchers = append(modelVouchers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating voucher rows", err)
	}

	var nextTokenVal *string
	if len(modelVouchers) > limit {
		last := modelVouchers[limit-1]
		token := pagination.EncodeToken(last.VoucherDate, last.CreatedAt)
		nextTokenVal = &token
		modelVouchers = modelVouchers[:limit]
	}

	vouchers := make([]domain.Voucher, len(modelVouchers))
	for i, m := range modelVouchers {
		vouchers[i] = mapping.ToDomainVoucher(m)
	}
	return vouchers, nextTokenVal, nil
}
