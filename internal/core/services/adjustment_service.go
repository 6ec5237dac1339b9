package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
)

// adjustmentService manages tax and discount definitions.
type adjustmentService struct {
	documentRepo portsrepo.DocumentRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
}

// NewAdjustmentService creates a new adjustment service.
func NewAdjustmentService(documentRepo portsrepo.DocumentRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.AdjustmentSvcFacade {
	return &adjustmentService{documentRepo: documentRepo, accountRepo: accountRepo}
}

var _ portssvc.AdjustmentSvcFacade = (*adjustmentService)(nil)

func (s *adjustmentService) CreateAdjustment(ctx context.Context, companyID string, req dto.CreateAdjustmentRequest, creatorUserID string) (*domain.Adjustment, error) {
	// Non-recoverable taxes roll into the line's account and carry none of
	// their own; everything else must name the account it posts to.
	nonRecoverableTax := req.Category == domain.Tax && req.NonRecoverable
	if req.AccountID == "" && !nonRecoverableTax {
		return nil, fmt.Errorf("%w: adjustment requires a ledger account", apperrors.ErrValidation)
	}
	if req.AccountID != "" {
		if _, err := s.accountRepo.FindAccountByID(ctx, companyID, req.AccountID); err != nil {
			return nil, fmt.Errorf("failed to resolve adjustment account %s: %w", req.AccountID, err)
		}
	}
	if req.NonRecoverable && req.Category != domain.Tax {
		return nil, fmt.Errorf("%w: only taxes can be non-recoverable", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	adjustment := domain.Adjustment{
		AdjustmentID:   uuid.NewString(),
		CompanyID:      companyID,
		Name:           req.Name,
		Category:       req.Category,
		Computation:    req.Computation,
		Rate:           req.Rate,
		AccountID:      req.AccountID,
		NonRecoverable: req.NonRecoverable,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.documentRepo.SaveAdjustment(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("failed to create adjustment: %w", err)
	}
	return &adjustment, nil
}

func (s *adjustmentService) ListAdjustments(ctx context.Context, companyID string) ([]domain.Adjustment, error) {
	adjustmentList, err := s.documentRepo.ListAdjustmentsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	if adjustmentList == nil {
		return []domain.Adjustment{}, nil
	}
	return adjustmentList, nil
}
