package repositories

import (
	"context"

	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// PartnerReader defines read operations for vendors and clients.
type PartnerReader interface {
	FindPartnerByID(ctx context.Context, companyID, partnerID string) (*domain.Partner, error)
	ListPartnersByCompany(ctx context.Context, companyID string, kind *domain.PartnerKind) ([]domain.Partner, error)
}

// PartnerWriter defines write operations for vendors and clients.
type PartnerWriter interface {
	SavePartner(ctx context.Context, partner domain.Partner) error
	UpdatePartner(ctx context.Context, partner domain.Partner) error
}

// PartnerRepositoryFacade combines all partner repository interfaces.
type PartnerRepositoryFacade interface {
	PartnerReader
	PartnerWriter
}
