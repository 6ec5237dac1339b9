package domain_test

import (
	"testing"
	"time"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

var (
	day0 = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	day1 = day0.AddDate(0, 0, 1)
)

func TestDocumentType_InitialStatus(t *testing.T) {
	assert.Equal(t, domain.StatusOpen, domain.Bill.InitialStatus())
	assert.Equal(t, domain.StatusDraft, domain.Invoice.InitialStatus())
	assert.Equal(t, domain.StatusDraft, domain.Estimate.InitialStatus())
	assert.Equal(t, domain.StatusDraft, domain.RecurringInvoice.InitialStatus())
}

func TestDocument_Approve(t *testing.T) {
	tests := []struct {
		name       string
		doc        domain.Document
		today      time.Time
		wantStatus domain.DocumentStatus
		wantErr    bool
	}{
		{
			name:       "draft invoice with future due date becomes unsent",
			doc:        domain.Document{Type: domain.Invoice, Status: domain.StatusDraft, DueDate: day1},
			today:      day0,
			wantStatus: domain.StatusUnsent,
		},
		{
			name:       "draft invoice already past due goes straight to overdue",
			doc:        domain.Document{Type: domain.Invoice, Status: domain.StatusDraft, DueDate: day0},
			today:      day1,
			wantStatus: domain.StatusOverdue,
		},
		{
			name:       "draft estimate becomes approved",
			doc:        domain.Document{Type: domain.Estimate, Status: domain.StatusDraft, DueDate: day1},
			today:      day0,
			wantStatus: domain.StatusApproved,
		},
		{
			name:       "draft recurring invoice becomes active",
			doc:        domain.Document{Type: domain.RecurringInvoice, Status: domain.StatusDraft, DueDate: day1},
			today:      day0,
			wantStatus: domain.StatusActive,
		},
		{
			name:    "bill cannot be approved",
			doc:     domain.Document{Type: domain.Bill, Status: domain.StatusOpen},
			today:   day0,
			wantErr: true,
		},
		{
			name:    "already approved invoice cannot be approved again",
			doc:     domain.Document{Type: domain.Invoice, Status: domain.StatusUnsent},
			today:   day0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Approve(day0, tt.today)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, tt.doc.Status)
			assert.True(t, tt.doc.WasApproved())
		})
	}
}

func TestDocument_MarkSent(t *testing.T) {
	doc := domain.Document{Type: domain.Invoice, Status: domain.StatusUnsent}
	assert.NoError(t, doc.MarkSent(day0))
	assert.Equal(t, domain.StatusSent, doc.Status)
	assert.True(t, doc.HasBeenSent())

	// Re-send keeps the status, refreshes the timestamp.
	assert.NoError(t, doc.MarkSent(day1))
	assert.Equal(t, domain.StatusSent, doc.Status)
	assert.Equal(t, day1, *doc.LastSentAt)

	// Draft invoices cannot be sent.
	draft := domain.Document{Type: domain.Invoice, Status: domain.StatusDraft}
	assert.ErrorIs(t, draft.MarkSent(day0), apperrors.ErrInvalidStateTransition)

	// Sending an overdue invoice does not rescue it from overdue.
	overdue := domain.Document{Type: domain.Invoice, Status: domain.StatusOverdue}
	assert.NoError(t, overdue.MarkSent(day0))
	assert.Equal(t, domain.StatusOverdue, overdue.Status)
}

func TestDocument_EstimateLifecycle(t *testing.T) {
	doc := domain.Document{Type: domain.Estimate, Status: domain.StatusDraft, DueDate: day1.AddDate(0, 1, 0)}

	assert.NoError(t, doc.Approve(day0, day0))
	assert.NoError(t, doc.MarkSent(day0))
	assert.Equal(t, domain.StatusSent, doc.Status)

	assert.NoError(t, doc.MarkViewed())
	assert.Equal(t, domain.StatusViewed, doc.Status)

	assert.NoError(t, doc.MarkAccepted())
	assert.Equal(t, domain.StatusAccepted, doc.Status)

	assert.NoError(t, doc.MarkConverted())
	assert.Equal(t, domain.StatusConverted, doc.Status)
	assert.True(t, doc.Status.IsTerminal())

	// Terminal: nothing further is allowed.
	assert.ErrorIs(t, doc.MarkAccepted(), apperrors.ErrInvalidStateTransition)
}

func TestDocument_MarkDeclined(t *testing.T) {
	doc := domain.Document{Type: domain.Estimate, Status: domain.StatusSent}
	assert.NoError(t, doc.MarkDeclined())
	assert.Equal(t, domain.StatusDeclined, doc.Status)
	assert.True(t, doc.Status.IsTerminal())
}

func TestDocument_MarkExpired(t *testing.T) {
	doc := domain.Document{Type: domain.Estimate, Status: domain.StatusViewed, DueDate: day0}
	assert.NoError(t, doc.MarkExpired(day1))
	assert.Equal(t, domain.StatusExpired, doc.Status)

	fresh := domain.Document{Type: domain.Estimate, Status: domain.StatusSent, DueDate: day1}
	assert.ErrorIs(t, fresh.MarkExpired(day0), apperrors.ErrInvalidStateTransition)
}

func TestDocument_Void(t *testing.T) {
	tests := []struct {
		name    string
		doc     domain.Document
		wantErr bool
	}{
		{name: "open bill", doc: domain.Document{Type: domain.Bill, Status: domain.StatusOpen}},
		{name: "partial invoice", doc: domain.Document{Type: domain.Invoice, Status: domain.StatusPartial}},
		{name: "paid bill", doc: domain.Document{Type: domain.Bill, Status: domain.StatusPaid}, wantErr: true},
		{name: "overpaid invoice", doc: domain.Document{Type: domain.Invoice, Status: domain.StatusOverpaid}, wantErr: true},
		{name: "already void", doc: domain.Document{Type: domain.Bill, Status: domain.StatusVoid}, wantErr: true},
		{name: "estimate", doc: domain.Document{Type: domain.Estimate, Status: domain.StatusSent}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Void()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, domain.StatusVoid, tt.doc.Status)
		})
	}
}

func TestDocument_ApplyPaymentStatus(t *testing.T) {
	approvedAt := day0

	tests := []struct {
		name       string
		doc        domain.Document
		wantStatus domain.DocumentStatus
		wantPaidAt bool
	}{
		{
			name:       "full payment settles",
			doc:        domain.Document{Type: domain.Bill, Status: domain.StatusOpen, Total: 1000, AmountPaid: 1000},
			wantStatus: domain.StatusPaid,
			wantPaidAt: true,
		},
		{
			name:       "overpaid invoice",
			doc:        domain.Document{Type: domain.Invoice, Status: domain.StatusSent, ApprovedAt: &approvedAt, Total: 1000, AmountPaid: 1200},
			wantStatus: domain.StatusOverpaid,
			wantPaidAt: true,
		},
		{
			name:       "bill overpayment still counts as paid",
			doc:        domain.Document{Type: domain.Bill, Status: domain.StatusOpen, Total: 1000, AmountPaid: 1200},
			wantStatus: domain.StatusPaid,
			wantPaidAt: true,
		},
		{
			name:       "partial payment",
			doc:        domain.Document{Type: domain.Bill, Status: domain.StatusOpen, Total: 1000, AmountPaid: 400, DueDate: day1},
			wantStatus: domain.StatusPartial,
		},
		{
			name:       "partial payment past due decays to overdue",
			doc:        domain.Document{Type: domain.Bill, Status: domain.StatusOpen, Total: 1000, AmountPaid: 400, DueDate: day0.AddDate(0, 0, -1)},
			wantStatus: domain.StatusOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.doc.ApplyPaymentStatus(day0, day0)
			assert.Equal(t, tt.wantStatus, tt.doc.Status)
			if tt.wantPaidAt {
				assert.NotNil(t, tt.doc.PaidAt)
			} else {
				assert.Nil(t, tt.doc.PaidAt)
			}
		})
	}
}

func TestDocument_RefreshOverdue(t *testing.T) {
	approvedAt := day0
	sentAt := day0

	t.Run("open bill past due decays", func(t *testing.T) {
		doc := domain.Document{Type: domain.Bill, Status: domain.StatusOpen, DueDate: day0}
		doc.RefreshOverdue(day1, false, false)
		assert.Equal(t, domain.StatusOverdue, doc.Status)
	})

	t.Run("unapproved invoice never decays", func(t *testing.T) {
		doc := domain.Document{Type: domain.Invoice, Status: domain.StatusDraft, DueDate: day0}
		doc.RefreshOverdue(day1, false, false)
		assert.Equal(t, domain.StatusDraft, doc.Status)
	})

	t.Run("due date moved forward reverts overdue bill to open", func(t *testing.T) {
		doc := domain.Document{Type: domain.Bill, Status: domain.StatusOverdue, DueDate: day1}
		doc.RefreshOverdue(day0, true, false)
		assert.Equal(t, domain.StatusOpen, doc.Status)
	})

	t.Run("revert picks sent over unsent when the invoice was sent", func(t *testing.T) {
		doc := domain.Document{
			Type: domain.Invoice, Status: domain.StatusOverdue,
			DueDate: day1, ApprovedAt: &approvedAt, LastSentAt: &sentAt,
		}
		doc.RefreshOverdue(day0, true, false)
		assert.Equal(t, domain.StatusSent, doc.Status)
	})

	t.Run("no revert once payments exist", func(t *testing.T) {
		doc := domain.Document{Type: domain.Bill, Status: domain.StatusOverdue, DueDate: day1}
		doc.RefreshOverdue(day0, true, true)
		assert.Equal(t, domain.StatusOverdue, doc.Status)
	})
}

func TestDocument_CanRecordPayment(t *testing.T) {
	approvedAt := day0

	assert.True(t, (&domain.Document{Type: domain.Bill, Status: domain.StatusOpen}).CanRecordPayment())
	assert.False(t, (&domain.Document{Type: domain.Bill, Status: domain.StatusPaid}).CanRecordPayment())
	assert.False(t, (&domain.Document{Type: domain.Invoice, Status: domain.StatusDraft}).CanRecordPayment())
	assert.True(t, (&domain.Document{Type: domain.Invoice, Status: domain.StatusSent, ApprovedAt: &approvedAt}).CanRecordPayment())
	assert.False(t, (&domain.Document{Type: domain.Invoice, Status: domain.StatusOverpaid, ApprovedAt: &approvedAt}).CanRecordPayment())
	assert.False(t, (&domain.Document{Type: domain.Estimate, Status: domain.StatusAccepted}).CanRecordPayment())
}
