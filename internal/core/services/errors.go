package services

import "errors"

// Engine error taxonomy. The first four are validation-time and recoverable:
// the caller corrects the voucher and resubmits. ErrConcurrencyConflict is
// posting-time and retryable. ErrInvariantViolation means the books no longer
// balance globally; postings are halted until someone investigates.
var (
	ErrMissingLedger       = errors.New("voucher entry references a missing or inactive ledger")
	ErrAmbiguousEntry      = errors.New("voucher entry must have exactly one of debit or credit non-zero")
	ErrUnbalanced          = errors.New("voucher debits and credits do not balance")
	ErrInvalidLineTax      = errors.New("line item tax components are inconsistent")
	ErrConcurrencyConflict = errors.New("concurrent posting conflict, retry the operation")
	ErrInvariantViolation  = errors.New("trial balance invariant violated, postings are halted")
)

var (
	ErrVoucherMinEntries   = errors.New("voucher must have at least two ledger entries")
	ErrVoucherMinLedgers   = errors.New("voucher must affect at least two different ledgers")
	ErrNarrationMissing    = errors.New("voucher narration is required")
	ErrVoucherNotDraft     = errors.New("voucher must be in draft status to be posted")
	ErrVoucherNotPosted    = errors.New("voucher must be posted to be reversed")
	ErrReversalOfReversal  = errors.New("cannot reverse a voucher that is itself a reversal")
	ErrLineItemsMissing    = errors.New("sales and purchase vouchers require at least one line item")
	ErrPlaceOfSupplyNeeded = errors.New("supplier state and place of supply are required for invoice vouchers")
)
