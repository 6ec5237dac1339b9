package dto

import (
	"time"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineItemRequest is one document row as submitted by the caller.
// Monetary values arrive as integer cents; quantity as a decimal string with
// up to two fraction digits.
type CreateLineItemRequest struct {
	OfferingID    string          `json:"offeringID"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	AccountID     string          `json:"accountID" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice     int64           `json:"unitPrice" binding:"gte=0"`
	TaxIDs        []string        `json:"taxIDs"`
	DiscountIDs   []string        `json:"discountIDs"`
}

// CreateDocumentRequest creates a bill, invoice, estimate or recurring invoice.
type CreateDocumentRequest struct {
	Type                domain.DocumentType          `json:"type" binding:"required,oneof=BILL INVOICE ESTIMATE RECURRING_INVOICE"`
	PartnerID           string                       `json:"partnerID" binding:"required"`
	OrderNumber         string                       `json:"orderNumber"`
	Date                time.Time                    `json:"date" binding:"required"`
	DueDate             time.Time                    `json:"dueDate" binding:"required"`
	CurrencyCode        string                       `json:"currencyCode" binding:"required,len=3"`
	DiscountMethod      domain.DiscountMethod        `json:"discountMethod" binding:"required,oneof=PER_LINE_ITEM PER_DOCUMENT"`
	DiscountComputation domain.AdjustmentComputation `json:"discountComputation" binding:"omitempty,oneof=PERCENTAGE FIXED"`
	DiscountRate        int64                        `json:"discountRate" binding:"gte=0"`
	Notes               string                       `json:"notes"`
	LineItems           []CreateLineItemRequest      `json:"lineItems" binding:"required,min=1,dive"`
	Schedule            *ScheduleRequest             `json:"schedule"` // Recurring invoices only
}

// ScheduleRequest configures a recurring invoice's repetition rule.
type ScheduleRequest struct {
	Frequency      domain.Frequency    `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY CUSTOM"`
	IntervalType   domain.IntervalType `json:"intervalType" binding:"omitempty,oneof=DAY WEEK MONTH YEAR"`
	IntervalValue  int                 `json:"intervalValue" binding:"omitempty,gte=1"`
	DayOfWeek      int                 `json:"dayOfWeek" binding:"omitempty,gte=0,lte=6"`
	DayOfMonth     int                 `json:"dayOfMonth" binding:"omitempty,gte=1,lte=31"`
	Month          int                 `json:"month" binding:"omitempty,gte=1,lte=12"`
	EndType        domain.EndType      `json:"endType" binding:"omitempty,oneof=NEVER AFTER ON"`
	MaxOccurrences int                 `json:"maxOccurrences" binding:"omitempty,gte=1"`
	EndDate        *time.Time          `json:"endDate"`
	StartDate      time.Time           `json:"startDate"`
}

// UpdateDueDateRequest moves a document's due (or expiration) date.
type UpdateDueDateRequest struct {
	DueDate time.Time `json:"dueDate" binding:"required"`
}

// LineItemResponse mirrors a stored line item.
type LineItemResponse struct {
	LineItemID    string          `json:"lineItemID"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     int64           `json:"unitPrice"`
	Subtotal      int64           `json:"subtotal"`
	TaxTotal      int64           `json:"taxTotal"`
	DiscountTotal int64           `json:"discountTotal"`
	Total         int64           `json:"total"`
}

// DocumentResponse mirrors a stored document with its computed totals.
type DocumentResponse struct {
	DocumentID     string                `json:"documentID"`
	Type           domain.DocumentType   `json:"type"`
	PartnerID      string                `json:"partnerID"`
	DocumentNumber string                `json:"documentNumber"`
	OrderNumber    string                `json:"orderNumber"`
	Date           time.Time             `json:"date"`
	DueDate        time.Time             `json:"dueDate"`
	CurrencyCode   string                `json:"currencyCode"`
	DiscountMethod domain.DiscountMethod `json:"discountMethod"`
	Status         domain.DocumentStatus `json:"status"`
	Subtotal       int64                 `json:"subtotal"`
	TaxTotal       int64                 `json:"taxTotal"`
	DiscountTotal  int64                 `json:"discountTotal"`
	Total          int64                 `json:"total"`
	AmountPaid     int64                 `json:"amountPaid"`
	AmountDue      int64                 `json:"amountDue"`
	LineItems      []LineItemResponse    `json:"lineItems"`
}

// ListDocumentsResponse carries one page of documents plus the token for the
// next page.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToLineItemResponse converts a domain.LineItem to its response DTO.
func ToLineItemResponse(li *domain.LineItem) LineItemResponse {
	return LineItemResponse{
		LineItemID:    li.LineItemID,
		Name:          li.Name,
		Description:   li.Description,
		Quantity:      li.Quantity,
		UnitPrice:     li.UnitPrice,
		Subtotal:      li.Subtotal,
		TaxTotal:      li.TaxTotal,
		DiscountTotal: li.DiscountTotal,
		Total:         li.Total,
	}
}

// ToDocumentResponse converts a domain.Document to its response DTO.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	lineItems := make([]LineItemResponse, len(d.LineItems))
	for i := range d.LineItems {
		lineItems[i] = ToLineItemResponse(&d.LineItems[i])
	}
	return DocumentResponse{
		DocumentID:     d.DocumentID,
		Type:           d.Type,
		PartnerID:      d.PartnerID,
		DocumentNumber: d.DocumentNumber,
		OrderNumber:    d.OrderNumber,
		Date:           d.Date,
		DueDate:        d.DueDate,
		CurrencyCode:   d.CurrencyCode,
		DiscountMethod: d.DiscountMethod,
		Status:         d.Status,
		Subtotal:       d.Subtotal,
		TaxTotal:       d.TaxTotal,
		DiscountTotal:  d.DiscountTotal,
		Total:          d.Total,
		AmountPaid:     d.AmountPaid,
		AmountDue:      d.AmountDue(),
		LineItems:      lineItems,
	}
}

// ToDocumentResponses converts a slice of domain.Document.
func ToDocumentResponses(docs []domain.Document) []DocumentResponse {
	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = ToDocumentResponse(&docs[i])
	}
	return responses
}
