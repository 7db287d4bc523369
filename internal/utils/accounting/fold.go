package accounting

import (
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum permitted |total debit - total credit|
// mismatch for a voucher, in currency units.
var BalanceTolerance = decimal.New(1, -2) // 0.01

// SignedMovement converts one debit/credit movement into its signed effect on
// a ledger of the given nature. Positive means the balance magnitude grows on
// the ledger's nature side; negative shrinks it (and flips the displayed side
// once it crosses zero).
//
// DEBIT to a debit-normal ledger   -> +
// CREDIT to a debit-normal ledger  -> -
// DEBIT to a credit-normal ledger  -> -
// CREDIT to a credit-normal ledger -> +
func SignedMovement(nature domain.LedgerNature, debit, credit decimal.Decimal) decimal.Decimal {
	if nature == domain.DebitNormal {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// SignedEntryAmount applies SignedMovement to a voucher entry.
func SignedEntryAmount(nature domain.LedgerNature, entry domain.LedgerEntry) decimal.Decimal {
	return SignedMovement(nature, entry.DebitAmount, entry.CreditAmount)
}

// FoldPostings replays postings over an opening signed balance and returns the
// closing signed balance. The caller supplies postings in chronological order;
// the fold itself is order-insensitive for the closing figure but the per-row
// running balances emitted by statements are not.
func FoldPostings(openingSigned decimal.Decimal, nature domain.LedgerNature, postings []domain.Posting) decimal.Decimal {
	balance := openingSigned
	for _, p := range postings {
		balance = balance.Add(SignedMovement(nature, p.DebitAmount, p.CreditAmount))
	}
	return balance
}

// SumEntries totals the debit and credit columns of a set of voucher entries.
func SumEntries(entries []domain.LedgerEntry) (totalDebit, totalCredit decimal.Decimal) {
	for _, e := range entries {
		totalDebit = totalDebit.Add(e.DebitAmount)
		totalCredit = totalCredit.Add(e.CreditAmount)
	}
	return totalDebit, totalCredit
}

// WithinTolerance reports whether two amounts agree within BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}
