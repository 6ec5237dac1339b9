package domain

import (
	"fmt"
	"time"

	"github.com/finbooks/finbooks_app/internal/apperrors"
)

// DocumentStatus is the lifecycle state of a document. Which statuses are
// reachable depends on the document type; transitions outside their guards
// fail with apperrors.ErrInvalidStateTransition.
type DocumentStatus string

const (
	// Bills start Open; invoices, estimates and recurring invoices start Draft.
	StatusOpen  DocumentStatus = "OPEN"
	StatusDraft DocumentStatus = "DRAFT"

	StatusUnsent DocumentStatus = "UNSENT"
	StatusSent   DocumentStatus = "SENT"
	StatusViewed DocumentStatus = "VIEWED"

	StatusApproved  DocumentStatus = "APPROVED"
	StatusAccepted  DocumentStatus = "ACCEPTED"
	StatusDeclined  DocumentStatus = "DECLINED"
	StatusExpired   DocumentStatus = "EXPIRED"
	StatusConverted DocumentStatus = "CONVERTED"

	StatusPartial  DocumentStatus = "PARTIAL"
	StatusPaid     DocumentStatus = "PAID"
	StatusOverpaid DocumentStatus = "OVERPAID"
	StatusOverdue  DocumentStatus = "OVERDUE"
	StatusVoid     DocumentStatus = "VOID"

	StatusActive DocumentStatus = "ACTIVE"
	StatusPaused DocumentStatus = "PAUSED"
	StatusEnded  DocumentStatus = "ENDED"
)

// IsTerminal reports whether no further transitions leave the status.
func (s DocumentStatus) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusVoid, StatusDeclined, StatusConverted, StatusEnded:
		return true
	default:
		return false
	}
}

// InitialStatus returns the status a freshly created document starts in.
func (t DocumentType) InitialStatus() DocumentStatus {
	switch t {
	case Bill:
		return StatusOpen
	case Invoice, Estimate, RecurringInvoice:
		return StatusDraft
	default:
		return StatusDraft
	}
}

func invalidTransition(t DocumentType, s DocumentStatus, action string) error {
	return fmt.Errorf("%w: cannot %s a %s in status %s", apperrors.ErrInvalidStateTransition, action, t, s)
}

// WasApproved reports whether an invoice has passed approval.
func (d *Document) WasApproved() bool {
	return d.ApprovedAt != nil
}

// HasBeenSent reports whether the document was ever sent.
func (d *Document) HasBeenSent() bool {
	return d.LastSentAt != nil
}

// CanBeOverdue reports whether the current status may decay into Overdue.
func (d *Document) CanBeOverdue() bool {
	switch d.Type {
	case Bill:
		return d.Status == StatusOpen || d.Status == StatusPartial
	case Invoice:
		return d.Status == StatusUnsent || d.Status == StatusSent || d.Status == StatusPartial
	default:
		return false
	}
}

// ShouldBeOverdue reports whether the document is past due and eligible to
// become Overdue.
func (d *Document) ShouldBeOverdue(today time.Time) bool {
	if d.Type == Invoice && !d.WasApproved() {
		return false
	}
	return d.DueDate.Before(today) && d.CanBeOverdue()
}

// CanBeApproved reports whether Approve is allowed without error.
func (d *Document) CanBeApproved() bool {
	switch d.Type {
	case Invoice, Estimate, RecurringInvoice:
		return d.Status == StatusDraft
	default:
		return false
	}
}

// Approve moves a draft forward: invoices branch on the due date straight to
// Overdue when already past due, estimates become Approved, recurring
// invoices become Active. Bills have no approval step.
func (d *Document) Approve(at time.Time, today time.Time) error {
	if !d.CanBeApproved() {
		return invalidTransition(d.Type, d.Status, "approve")
	}
	d.ApprovedAt = &at
	switch d.Type {
	case Invoice:
		if d.DueDate.Before(today) {
			d.Status = StatusOverdue
		} else {
			d.Status = StatusUnsent
		}
	case Estimate:
		d.Status = StatusApproved
	case RecurringInvoice:
		d.Status = StatusActive
	}
	return nil
}

// CanBeMarkedAsSent reports whether MarkSent is allowed without error.
func (d *Document) CanBeMarkedAsSent() bool {
	switch d.Type {
	case Invoice:
		return d.Status == StatusUnsent || d.Status == StatusSent || d.Status == StatusOverdue
	case Estimate:
		return d.Status == StatusApproved || d.Status == StatusSent
	default:
		return false
	}
}

// MarkSent records a send. Unsent invoices become Sent; re-sends and sends of
// overdue invoices only refresh the timestamp.
func (d *Document) MarkSent(at time.Time) error {
	if !d.CanBeMarkedAsSent() {
		return invalidTransition(d.Type, d.Status, "send")
	}
	d.LastSentAt = &at
	if d.Type == Invoice && d.Status == StatusUnsent {
		d.Status = StatusSent
	}
	if d.Type == Estimate && d.Status == StatusApproved {
		d.Status = StatusSent
	}
	return nil
}

// MarkViewed transitions a sent estimate to Viewed.
func (d *Document) MarkViewed() error {
	if d.Type != Estimate || d.Status != StatusSent {
		return invalidTransition(d.Type, d.Status, "mark viewed")
	}
	d.Status = StatusViewed
	return nil
}

// MarkAccepted transitions a sent or viewed estimate to Accepted.
func (d *Document) MarkAccepted() error {
	if d.Type != Estimate || (d.Status != StatusSent && d.Status != StatusViewed) {
		return invalidTransition(d.Type, d.Status, "accept")
	}
	d.Status = StatusAccepted
	return nil
}

// MarkDeclined transitions a sent or viewed estimate to Declined (terminal).
func (d *Document) MarkDeclined() error {
	if d.Type != Estimate || (d.Status != StatusSent && d.Status != StatusViewed) {
		return invalidTransition(d.Type, d.Status, "decline")
	}
	d.Status = StatusDeclined
	return nil
}

// MarkExpired transitions a sent or viewed estimate past its expiration date
// to Expired.
func (d *Document) MarkExpired(today time.Time) error {
	if d.Type != Estimate || (d.Status != StatusSent && d.Status != StatusViewed) {
		return invalidTransition(d.Type, d.Status, "expire")
	}
	if !d.DueDate.Before(today) {
		return invalidTransition(d.Type, d.Status, "expire before expiration date")
	}
	d.Status = StatusExpired
	return nil
}

// MarkConverted transitions an accepted estimate to Converted (terminal),
// used when it becomes an invoice.
func (d *Document) MarkConverted() error {
	if d.Type != Estimate || d.Status != StatusAccepted {
		return invalidTransition(d.Type, d.Status, "convert")
	}
	d.Status = StatusConverted
	return nil
}

// Void cancels a bill or invoice that is not already settled or void.
func (d *Document) Void() error {
	switch d.Type {
	case Bill, Invoice:
	default:
		return invalidTransition(d.Type, d.Status, "void")
	}
	switch d.Status {
	case StatusPaid, StatusOverpaid, StatusVoid:
		return invalidTransition(d.Type, d.Status, "void")
	}
	d.Status = StatusVoid
	return nil
}

// CanRecordPayment reports whether the document still accepts payments.
func (d *Document) CanRecordPayment() bool {
	switch d.Type {
	case Bill:
		return d.Status != StatusPaid && d.Status != StatusVoid
	case Invoice:
		return d.WasApproved() &&
			d.Status != StatusPaid && d.Status != StatusOverpaid && d.Status != StatusVoid
	default:
		return false
	}
}

// ApplyPaymentStatus updates the lifecycle after AmountPaid changed: full
// settlement goes Paid (invoices beyond the total go Overpaid), anything
// outstanding goes Partial and then decays to Overdue when past due.
func (d *Document) ApplyPaymentStatus(at time.Time, today time.Time) {
	switch {
	case d.Type == Invoice && d.AmountPaid > d.Total:
		d.Status = StatusOverpaid
		d.PaidAt = &at
	case d.AmountPaid >= d.Total:
		d.Status = StatusPaid
		d.PaidAt = &at
	case d.AmountPaid > 0:
		d.Status = StatusPartial
		if d.ShouldBeOverdue(today) {
			d.Status = StatusOverdue
		}
	}
}

// RefreshOverdue is the pre-commit hook run by document mutations. It decays
// eligible past-due documents to Overdue, and reverts an Overdue document
// whose due date moved forward past today, provided no payments exist yet.
func (d *Document) RefreshOverdue(today time.Time, dueDateChanged, hasPayments bool) {
	if d.Type == Invoice && !d.WasApproved() {
		return
	}

	if dueDateChanged && d.Status == StatusOverdue && !d.DueDate.Before(today) && !hasPayments {
		switch d.Type {
		case Bill:
			d.Status = StatusOpen
		case Invoice:
			if d.HasBeenSent() {
				d.Status = StatusSent
			} else {
				d.Status = StatusUnsent
			}
		}
		return
	}

	if d.ShouldBeOverdue(today) {
		d.Status = StatusOverdue
	}
}
