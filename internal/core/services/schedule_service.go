package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/middleware"
)

// scheduleService drives recurring invoice schedules.
type scheduleService struct {
	documentRepo portsrepo.DocumentRepositoryFacade
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(documentRepo portsrepo.DocumentRepositoryFacade) portssvc.ScheduleSvcFacade {
	return &scheduleService{documentRepo: documentRepo}
}

var _ portssvc.ScheduleSvcFacade = (*scheduleService)(nil)

func (s *scheduleService) NextOccurrence(schedule domain.Schedule, from time.Time) (time.Time, bool) {
	return schedule.NextOccurrence(from)
}

// PreviewOccurrences returns up to count upcoming occurrences without
// mutating the schedule.
func (s *scheduleService) PreviewOccurrences(schedule domain.Schedule, from time.Time, count int) []time.Time {
	occurrences := make([]time.Time, 0, count)
	cursor := from
	for len(occurrences) < count {
		next, ok := schedule.NextOccurrence(cursor)
		if !ok {
			break
		}
		occurrences = append(occurrences, next)
		schedule.Occurrences++
		cursor = next
	}
	return occurrences
}

// AdvanceSchedule moves an active recurring invoice's schedule forward one
// occurrence, stamping last/next dates and the occurrence count. The
// schedule ends, and the document with it, once the end condition is
// reached.
func (s *scheduleService) AdvanceSchedule(ctx context.Context, companyID, documentID string, asOf time.Time, updaterUserID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	if doc.Type != domain.RecurringInvoice || doc.Schedule == nil {
		return nil, fmt.Errorf("%w: document %s is not a recurring invoice", apperrors.ErrValidation, documentID)
	}
	if doc.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: cannot advance a %s schedule", apperrors.ErrInvalidStateTransition, doc.Status)
	}

	from := asOf
	if doc.Schedule.LastDate != nil {
		from = *doc.Schedule.LastDate
	} else if doc.Schedule.StartDate.After(from) {
		from = doc.Schedule.StartDate
	}

	occurred, ok := doc.Schedule.NextOccurrence(from)
	if !ok {
		doc.Status = domain.StatusEnded
		doc.Schedule.NextDate = nil
	} else {
		doc.Schedule.LastDate = &occurred
		doc.Schedule.Occurrences++

		if next, hasNext := doc.Schedule.NextOccurrence(occurred); hasNext {
			doc.Schedule.NextDate = &next
		} else {
			doc.Schedule.NextDate = nil
			doc.Status = domain.StatusEnded
		}
	}

	doc.LastUpdatedAt = time.Now().UTC()
	doc.LastUpdatedBy = updaterUserID

	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", documentID, err)
	}

	logger.Info("schedule advanced",
		slog.String("document_id", documentID),
		slog.Int("occurrences", doc.Schedule.Occurrences),
		slog.String("status", string(doc.Status)),
	)
	return doc, nil
}
