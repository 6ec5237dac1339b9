package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// ScheduleSvcFacade drives recurring invoice schedules.
type ScheduleSvcFacade interface {
	// NextOccurrence computes the occurrence following from for a schedule.
	// ok is false once the end condition is reached.
	NextOccurrence(schedule domain.Schedule, from time.Time) (next time.Time, ok bool)

	// PreviewOccurrences returns up to count upcoming occurrences.
	PreviewOccurrences(schedule domain.Schedule, from time.Time, count int) []time.Time

	// AdvanceSchedule generates the next occurrence for an active recurring
	// invoice, stamping last/next dates and the occurrence count, and ending
	// the schedule when exhausted.
	AdvanceSchedule(ctx context.Context, companyID, documentID string, asOf time.Time, updaterUserID string) (*domain.Document, error)
}
