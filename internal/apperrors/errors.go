package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidAmount indicates a malformed monetary value, or a negative amount
// where a non-negative one is required.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// ErrUnknownCurrency indicates an operation referenced a currency code that is
// not configured in the currency registry.
var ErrUnknownCurrency = errors.New("unknown currency code")

// ErrMissingExchangeRate indicates a conversion was requested for a currency
// pair with no configured exchange rate.
var ErrMissingExchangeRate = errors.New("no exchange rate configured for currency pair")

// ErrCurrencyMismatch indicates arithmetic was attempted across two different
// currencies without converting first.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrInvalidStateTransition indicates a document action was attempted outside
// its state machine guard (e.g. approving a non-draft invoice).
var ErrInvalidStateTransition = errors.New("invalid document state transition")

// ErrUnbalancedJournal indicates the debit and credit sums of a journal
// posting failed to reconcile even after rounding correction. The posting is
// aborted and nothing is persisted.
var ErrUnbalancedJournal = errors.New("journal entries do not balance")

// ErrDuplicateInitialTransaction indicates initial recognition was attempted
// on a document that already has its initial journal transaction.
var ErrDuplicateInitialTransaction = errors.New("document already has an initial transaction")

// ErrConcurrentNumberAllocation indicates a document number allocation race
// was detected; the caller should retry.
var ErrConcurrentNumberAllocation = errors.New("concurrent document number allocation detected")
