package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bharatbooks/gst_ledger_app/internal/apperrors"
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	portsrepo "github.com/bharatbooks/gst_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/bharatbooks/gst_ledger_app/internal/core/ports/services"
	"github.com/bharatbooks/gst_ledger_app/internal/dto"
	"github.com/bharatbooks/gst_ledger_app/internal/middleware"
	"github.com/bharatbooks/gst_ledger_app/internal/utils/accounting"
	"github.com/bharatbooks/gst_ledger_app/internal/utils/gst"
)

// voucherService implements the voucher lifecycle: draft creation with GST
// line computation, validation, atomic posting and reversal-only cancellation.
type voucherService struct {
	voucherRepo portsrepo.VoucherRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	guard       *PostingGuard
}

// NewVoucherService creates a new voucher service.
func NewVoucherService(voucherRepo portsrepo.VoucherRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, guard *PostingGuard) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo: voucherRepo,
		ledgerRepo:  ledgerRepo,
		guard:       guard,
	}
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// normalizeEntries enforces the per-entry and whole-voucher invariants and
// returns the entry list ready for posting: amounts rounded to 2dp, entries
// that round to zero stripped. Pure; never touches ledger balances.
func normalizeEntries(entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	if len(entries) < 2 {
		return nil, ErrVoucherMinEntries
	}

	normalized := make([]domain.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.DebitAmount.IsNegative() || e.CreditAmount.IsNegative() {
			return nil, fmt.Errorf("%w: entry amounts must not be negative for ledger %s", apperrors.ErrValidation, e.LedgerID)
		}
		hasDebit := e.DebitAmount.IsPositive()
		hasCredit := e.CreditAmount.IsPositive()
		if hasDebit == hasCredit { // both set or both zero
			return nil, fmt.Errorf("%w: ledger %s has debit %s and credit %s",
				ErrAmbiguousEntry, e.LedgerID, e.DebitAmount.String(), e.CreditAmount.String())
		}

		e.DebitAmount = e.DebitAmount.Round(2)
		e.CreditAmount = e.CreditAmount.Round(2)
		if e.DebitAmount.IsZero() && e.CreditAmount.IsZero() {
			continue // sub-paisa entry, nothing to post
		}
		normalized = append(normalized, e)
	}

	totalDebit, totalCredit := accounting.SumEntries(normalized)
	if !accounting.WithinTolerance(totalDebit, totalCredit) {
		return nil, fmt.Errorf("%w: total debit %s, total credit %s",
			ErrUnbalanced, totalDebit.String(), totalCredit.String())
	}

	return normalized, nil
}

// validateLineItems checks the GST invariants on invoice lines: a line is
// either CGST+SGST or IGST (never both), and its total reconciles with
// taxable plus taxes.
func validateLineItems(lines []domain.LineItem) error {
	for _, li := range lines {
		hasIntra := li.CGSTAmount.IsPositive() || li.SGSTAmount.IsPositive()
		hasInter := li.IGSTAmount.IsPositive()
		if hasIntra && hasInter {
			return fmt.Errorf("%w: line %q has both CGST/SGST and IGST", ErrInvalidLineTax, li.Description)
		}
		expected := li.TaxableAmount.Add(li.CGSTAmount).Add(li.SGSTAmount).Add(li.IGSTAmount).Add(li.CessAmount)
		if !accounting.WithinTolerance(li.TotalAmount, expected) {
			return fmt.Errorf("%w: line %q total %s does not equal taxable plus taxes %s",
				ErrInvalidLineTax, li.Description, li.TotalAmount.String(), expected.String())
		}
	}
	return nil
}

// validateEntriesAgainstLines checks that the voucher's entries actually book
// the invoice: the entry debit total must agree with the rounded document
// grand total within tolerance. Without this a voucher could post entries for
// one amount while its line items invoice another.
func validateEntriesAgainstLines(entries []domain.LedgerEntry, lines []domain.LineItem) error {
	grandTotal, _ := gst.DocumentTotals(lines)
	totalDebit, _ := accounting.SumEntries(entries)
	if !accounting.WithinTolerance(totalDebit, grandTotal) {
		return fmt.Errorf("%w: entry total %s does not match invoice total %s",
			ErrUnbalanced, totalDebit.String(), grandTotal.String())
	}
	return nil
}

// resolveLedgers fetches the referenced ledgers and rejects missing or
// inactive ones.
func (s *voucherService) resolveLedgers(ctx context.Context, entries []domain.LedgerEntry) (map[string]domain.Ledger, error) {
	ledgerIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		ledgerIDs = append(ledgerIDs, e.LedgerID)
	}
	uniqueIDs := uniqueStrings(ledgerIDs)

	ledgers, err := s.ledgerRepo.FindLedgersByIDs(ctx, uniqueIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledgers: %w", err)
	}
	for _, id := range uniqueIDs {
		ledger, found := ledgers[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrMissingLedger, id)
		}
		if !ledger.IsActive {
			return nil, fmt.Errorf("%w: ledger %s is inactive", ErrMissingLedger, id)
		}
	}
	return ledgers, nil
}

// CreateVoucher creates a draft voucher after validation. For sales and
// purchase vouchers the GST breakup of each line is computed here from the
// place of supply; ledger balances are not touched until PostVoucher.
func (s *voucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Narration == "" {
		return nil, ErrNarrationMissing
	}

	ledgerSet := make(map[string]struct{})
	for _, e := range req.Entries {
		ledgerSet[e.LedgerID] = struct{}{}
	}
	if len(ledgerSet) < 2 {
		return nil, ErrVoucherMinLedgers
	}

	now := time.Now().UTC()
	voucherID := uuid.NewString()

	entries := make([]domain.LedgerEntry, len(req.Entries))
	for i, entryReq := range req.Entries {
		entries[i] = domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			VoucherID:    voucherID,
			LedgerID:     entryReq.LedgerID,
			DebitAmount:  entryReq.DebitAmount,
			CreditAmount: entryReq.CreditAmount,
			Notes:        entryReq.Notes,
		}
	}

	normalized, err := normalizeEntries(entries)
	if err != nil {
		return nil, err
	}

	if _, err := s.resolveLedgers(ctx, normalized); err != nil {
		return nil, err
	}

	voucher := domain.Voucher{
		VoucherID:       voucherID,
		Type:            req.Type,
		Date:            req.Date,
		Status:          domain.Draft,
		Narration:       req.Narration,
		ReferenceNumber: req.ReferenceNumber,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	var lineItems []domain.LineItem
	if req.Type.HasLineItems() {
		if len(req.LineItems) == 0 {
			return nil, ErrLineItemsMissing
		}
		if req.SupplierState == "" || req.PlaceOfSupply == "" {
			return nil, ErrPlaceOfSupplyNeeded
		}
		lineItems = make([]domain.LineItem, len(req.LineItems))
		for i, lineReq := range req.LineItems {
			line := gst.BuildLineItem(lineReq.Description, lineReq.HSNCode,
				lineReq.Quantity, lineReq.Rate, lineReq.GSTRate, lineReq.CessRate,
				req.SupplierState, req.PlaceOfSupply)
			line.LineItemID = uuid.NewString()
			line.VoucherID = voucherID
			lineItems[i] = line
		}
		if err := validateLineItems(lineItems); err != nil {
			return nil, err
		}
		if err := validateEntriesAgainstLines(normalized, lineItems); err != nil {
			return nil, err
		}
		grandTotal, roundOff := gst.DocumentTotals(lineItems)
		voucher.TotalAmount = grandTotal
		voucher.RoundOff = roundOff
	} else {
		totalDebit, _ := accounting.SumEntries(normalized)
		voucher.TotalAmount = totalDebit
		voucher.RoundOff = decimal.Zero
	}

	if err := s.voucherRepo.SaveDraftVoucher(ctx, voucher, normalized, lineItems); err != nil {
		logger.Error("Failed to save draft voucher", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save draft voucher: %w", err)
	}

	logger.Info("Draft voucher created", slog.String("voucher_id", voucherID), slog.String("type", string(req.Type)))
	voucher.Entries = normalized
	voucher.LineItems = lineItems
	return &voucher, nil
}

// GetVoucherByID retrieves a voucher with its entries and line items.
func (s *voucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}

	entries, err := s.voucherRepo.FindEntriesByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for voucher %s: %w", voucherID, err)
	}
	voucher.Entries = entries

	if voucher.Type.HasLineItems() {
		lineItems, err := s.voucherRepo.FindLineItemsByVoucherID(ctx, voucherID)
		if err != nil {
			return nil, fmt.Errorf("failed to load line items for voucher %s: %w", voucherID, err)
		}
		voucher.LineItems = lineItems
	}

	return voucher, nil
}

// ListVouchers retrieves a token-paginated page of vouchers.
func (s *voucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	vouchers, nextToken, err := s.voucherRepo.ListVouchers(ctx, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve vouchers: %w", err)
	}

	responses := make([]dto.VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = dto.ToVoucherResponse(&vouchers[i])
	}
	return &dto.ListVouchersResponse{Vouchers: responses, NextToken: nextToken}, nil
}

// PostVoucher validates a draft voucher and atomically applies it to the
// affected ledgers. Validation failures propagate untouched and leave every
// ledger exactly as it was.
func (s *voucherService) PostVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.guard.Check(); err != nil {
		logger.Error("Posting refused, engine is halted", slog.String("voucher_id", voucherID))
		return nil, err
	}

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	if voucher.Status != domain.Draft {
		return nil, fmt.Errorf("%w: status is %s", ErrVoucherNotDraft, voucher.Status)
	}

	entries, err := s.voucherRepo.FindEntriesByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for voucher %s: %w", voucherID, err)
	}

	normalized, err := normalizeEntries(entries)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveLedgers(ctx, normalized); err != nil {
		return nil, err
	}

	if voucher.Type.HasLineItems() {
		lineItems, err := s.voucherRepo.FindLineItemsByVoucherID(ctx, voucherID)
		if err != nil {
			return nil, fmt.Errorf("failed to load line items for voucher %s: %w", voucherID, err)
		}
		if err := validateLineItems(lineItems); err != nil {
			return nil, err
		}
		if err := validateEntriesAgainstLines(normalized, lineItems); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if err := s.voucherRepo.PostVoucher(ctx, *voucher, normalized, userID, now); err != nil {
		logger.Error("Failed to post voucher", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrConcurrencyConflict, voucherID)
		}
		return nil, err
	}

	logger.Info("Voucher posted", slog.String("voucher_id", voucherID))
	voucher.Status = domain.Posted
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = userID
	voucher.Entries = normalized
	return voucher, nil
}

// ReverseVoucher cancels a posted voucher by posting an equal-and-opposite
// voucher that references the original. The original's postings are never
// mutated; its balances return to their pre-posting values exactly.
func (s *voucherService) ReverseVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.guard.Check(); err != nil {
		return nil, err
	}

	original, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve original voucher: %w", err)
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: status is %s", ErrVoucherNotPosted, original.Status)
	}
	if original.IsReversal() {
		return nil, ErrReversalOfReversal
	}

	originalEntries, err := s.voucherRepo.FindEntriesByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve original entries: %w", err)
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()

	reversing := domain.Voucher{
		VoucherID:         reversingID,
		Type:              original.Type,
		Date:              original.Date,
		Status:            domain.Posted,
		Narration:         fmt.Sprintf("Reversal of Voucher: %s", original.Narration),
		ReferenceNumber:   original.ReferenceNumber,
		TotalAmount:       original.TotalAmount,
		RoundOff:          original.RoundOff.Neg(),
		OriginalVoucherID: &original.VoucherID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	reversingEntries := make([]domain.LedgerEntry, len(originalEntries))
	for i, origEntry := range originalEntries {
		reversingEntries[i] = domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			VoucherID:    reversingID,
			LedgerID:     origEntry.LedgerID,
			DebitAmount:  origEntry.CreditAmount,
			CreditAmount: origEntry.DebitAmount,
			Notes:        origEntry.Notes,
		}
	}

	if err := s.voucherRepo.SaveReversal(ctx, reversing, reversingEntries, original.VoucherID, userID, now); err != nil {
		logger.Error("Failed to save reversing voucher", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrConcurrencyConflict, voucherID)
		}
		return nil, fmt.Errorf("failed to save reversing voucher: %w", err)
	}

	logger.Info("Voucher reversed", slog.String("original_voucher_id", voucherID), slog.String("reversing_voucher_id", reversingID))
	reversing.Entries = reversingEntries
	return &reversing, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
