package dto

import "github.com/finbooks/finbooks_app/internal/core/domain"

// CreateAccountRequest adds a node to the chart of accounts.
type CreateAccountRequest struct {
	CFID            string             `json:"cfid"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Role            domain.AccountRole `json:"role" binding:"omitempty,oneof=ACCOUNTS_PAYABLE ACCOUNTS_RECEIVABLE PURCHASE_DISCOUNT SALES_DISCOUNT BANK_ACCOUNT"`
	CurrencyCode    string             `json:"currencyCode" binding:"omitempty,len=3"`
	ParentAccountID string             `json:"parentAccountID"`
	Description     string             `json:"description"`
}

// AccountResponse mirrors a chart-of-accounts node.
type AccountResponse struct {
	AccountID    string             `json:"accountID"`
	CFID         string             `json:"cfid"`
	Name         string             `json:"name"`
	AccountType  domain.AccountType `json:"accountType"`
	Role         domain.AccountRole `json:"role"`
	CurrencyCode string             `json:"currencyCode"`
	Description  string             `json:"description"`
	IsActive     bool               `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    a.AccountID,
		CFID:         a.CFID,
		Name:         a.Name,
		AccountType:  a.AccountType,
		Role:         a.Role,
		CurrencyCode: a.CurrencyCode,
		Description:  a.Description,
		IsActive:     a.IsActive,
	}
}

// CreateAdjustmentRequest registers a tax or discount definition.
type CreateAdjustmentRequest struct {
	Name           string                       `json:"name" binding:"required"`
	Category       domain.AdjustmentCategory    `json:"category" binding:"required,oneof=TAX DISCOUNT"`
	Computation    domain.AdjustmentComputation `json:"computation" binding:"required,oneof=PERCENTAGE FIXED"`
	Rate           int64                        `json:"rate" binding:"gte=0"`
	AccountID      string                       `json:"accountID"`
	NonRecoverable bool                         `json:"nonRecoverable"`
}

// CreatePartnerRequest registers a vendor or client.
type CreatePartnerRequest struct {
	Name         string             `json:"name" binding:"required"`
	Kind         domain.PartnerKind `json:"kind" binding:"required,oneof=VENDOR CLIENT"`
	CurrencyCode string             `json:"currencyCode" binding:"omitempty,len=3"`
	Email        string             `json:"email" binding:"omitempty,email"`
}

// PartnerResponse mirrors a vendor or client.
type PartnerResponse struct {
	PartnerID    string             `json:"partnerID"`
	Name         string             `json:"name"`
	Kind         domain.PartnerKind `json:"kind"`
	CurrencyCode string             `json:"currencyCode"`
	Email        string             `json:"email"`
}

// ToPartnerResponse converts a domain.Partner to its response DTO.
func ToPartnerResponse(p *domain.Partner) PartnerResponse {
	return PartnerResponse{
		PartnerID:    p.PartnerID,
		Name:         p.Name,
		Kind:         p.Kind,
		CurrencyCode: p.CurrencyCode,
		Email:        p.Email,
	}
}
