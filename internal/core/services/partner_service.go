package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
)

// partnerService manages vendors and clients.
type partnerService struct {
	partnerRepo portsrepo.PartnerRepositoryFacade
}

// NewPartnerService creates a new partner service.
func NewPartnerService(partnerRepo portsrepo.PartnerRepositoryFacade) portssvc.PartnerSvcFacade {
	return &partnerService{partnerRepo: partnerRepo}
}

var _ portssvc.PartnerSvcFacade = (*partnerService)(nil)

func (s *partnerService) CreatePartner(ctx context.Context, companyID string, req dto.CreatePartnerRequest, creatorUserID string) (*domain.Partner, error) {
	now := time.Now().UTC()

	partner := domain.Partner{
		PartnerID:    uuid.NewString(),
		CompanyID:    companyID,
		Name:         req.Name,
		Kind:         req.Kind,
		CurrencyCode: req.CurrencyCode,
		Email:        req.Email,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.partnerRepo.SavePartner(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}
	return &partner, nil
}

func (s *partnerService) GetPartner(ctx context.Context, companyID, partnerID string) (*domain.Partner, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, companyID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner %s: %w", partnerID, err)
	}
	return partner, nil
}

func (s *partnerService) ListPartners(ctx context.Context, companyID string, kind *domain.PartnerKind) ([]domain.Partner, error) {
	partnerList, err := s.partnerRepo.ListPartnersByCompany(ctx, companyID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	if partnerList == nil {
		return []domain.Partner{}, nil
	}
	return partnerList, nil
}
