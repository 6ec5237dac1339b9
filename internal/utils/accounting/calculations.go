package accounting

import (
	"fmt"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// SumDebits adds up the debit-side entry amounts (default-currency cents).
func SumDebits(entries []domain.JournalEntry) int64 {
	var sum int64
	for _, e := range entries {
		if e.Type.IsDebit() {
			sum += e.Amount
		}
	}
	return sum
}

// SumCredits adds up the credit-side entry amounts.
func SumCredits(entries []domain.JournalEntry) int64 {
	var sum int64
	for _, e := range entries {
		if e.Type.IsCredit() {
			sum += e.Amount
		}
	}
	return sum
}

// AreBalanced reports whether debits equal credits.
func AreBalanced(entries []domain.JournalEntry) bool {
	return SumDebits(entries) == SumCredits(entries)
}

// ValidateBalanced enforces the double-entry invariant before a transaction
// is persisted: every entry positive, at least two entries, debits == credits.
func ValidateBalanced(entries []domain.JournalEntry) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: a posting needs at least two entries", apperrors.ErrUnbalancedJournal)
	}
	for _, e := range entries {
		if e.Amount <= 0 {
			return fmt.Errorf("%w: entry for account %s has non-positive amount %d", apperrors.ErrUnbalancedJournal, e.AccountID, e.Amount)
		}
	}
	debits, credits := SumDebits(entries), SumCredits(entries)
	if debits != credits {
		return fmt.Errorf("%w: debits %d != credits %d", apperrors.ErrUnbalancedJournal, debits, credits)
	}
	return nil
}

// CorrectRoundingImbalance forces debits == credits after per-entry currency
// conversion by adjusting the last entry of the deficient side by the exact
// delta. Returns an error when there is no entry on that side to adjust.
func CorrectRoundingImbalance(entries []domain.JournalEntry) ([]domain.JournalEntry, error) {
	imbalance := SumDebits(entries) - SumCredits(entries)
	if imbalance == 0 {
		return entries, nil
	}

	targetType := domain.CreditEntry
	if imbalance < 0 {
		targetType = domain.DebitEntry
		imbalance = -imbalance
	}

	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Type == targetType {
			entries[i].Amount += imbalance
			return entries, nil
		}
	}
	return nil, fmt.Errorf("%w: no %s entry available to absorb rounding delta %d", apperrors.ErrUnbalancedJournal, targetType, imbalance)
}
