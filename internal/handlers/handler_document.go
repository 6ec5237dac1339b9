package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
	"github.com/finbooks/finbooks_app/internal/middleware"
)

const defaultPageLimit = 50

// documentHandler handles HTTP requests for documents, their lifecycle
// actions and their ledger postings.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
	postingService  portssvc.PostingSvcFacade
	scheduleService portssvc.ScheduleSvcFacade
}

func newDocumentHandler(documentService portssvc.DocumentSvcFacade, postingService portssvc.PostingSvcFacade, scheduleService portssvc.ScheduleSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: documentService,
		postingService:  postingService,
		scheduleService: scheduleService,
	}
}

// createDocument godoc
// @Summary Create a bill, invoice, estimate or recurring invoice
// @Tags documents
// @Accept json
// @Produce json
// @Param document body dto.CreateDocumentRequest true "Document"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create document")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List the company's documents
// @Description Token-paginated listing, filterable by type, status and unpaid state
// @Tags documents
// @Produce json
// @Param type query string false "Document type"
// @Param status query []string false "Statuses to include"
// @Param unpaid query bool false "Only unpaid documents (Open/Partial/Overdue)"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDocumentsResponse
// @Router /documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	_, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	filter := portsrepo.DocumentFilter{}
	if typeParam := c.Query("type"); typeParam != "" {
		docType := domain.DocumentType(typeParam)
		filter.Type = &docType
	}
	for _, statusParam := range c.QueryArray("status") {
		filter.Statuses = append(filter.Statuses, domain.DocumentStatus(statusParam))
	}
	filter.UnpaidOnly = c.Query("unpaid") == "true"

	limit := defaultPageLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	var nextToken *string
	if tokenParam := c.Query("nextToken"); tokenParam != "" {
		nextToken = &tokenParam
	}

	docs, token, err := h.documentService.ListDocuments(c.Request.Context(), companyID, filter, limit, nextToken)
	if err != nil {
		respondError(c, err, "Failed to list documents")
		return
	}
	c.JSON(http.StatusOK, dto.ListDocumentsResponse{
		Documents: dto.ToDocumentResponses(docs),
		NextToken: token,
	})
}

// getDocument godoc
// @Summary Get a document with its line items
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	_, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocument(c.Request.Context(), companyID, c.Param("documentID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// deleteDocument godoc
// @Summary Delete a document
// @Description Removes the document, its line items and its transactions
// @Tags documents
// @Param documentID path string true "Document ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{documentID} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	_, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), companyID, c.Param("documentID")); err != nil {
		respondError(c, err, "Failed to delete document")
		return
	}
	c.Status(http.StatusNoContent)
}

// recalculateTotals godoc
// @Summary Recompute a document's totals
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Router /documents/{documentID}/recalculate [post]
func (h *documentHandler) recalculateTotals(c *gin.Context) {
	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	doc, err := h.documentService.RecalculateTotals(c.Request.Context(), companyID, c.Param("documentID"), userID)
	if err != nil {
		respondError(c, err, "Failed to recalculate totals")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// updateDueDate godoc
// @Summary Move a document's due or expiration date
// @Tags documents
// @Accept json
// @Produce json
// @Param documentID path string true "Document ID"
// @Param dueDate body dto.UpdateDueDateRequest true "New due date"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /documents/{documentID}/due-date [patch]
func (h *documentHandler) updateDueDate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateDueDate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	doc, err := h.documentService.UpdateDueDate(c.Request.Context(), companyID, c.Param("documentID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update due date")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// actionTimeRequest optionally overrides the timestamp of a lifecycle
// action.
type actionTimeRequest struct {
	At *time.Time `json:"at"`
}

func bindActionTime(c *gin.Context) *time.Time {
	if c.Request.ContentLength == 0 {
		return nil
	}
	var req actionTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil
	}
	return req.At
}

// lifecycleAction wraps the repetitive load-transition-respond pattern.
func (h *documentHandler) lifecycleAction(c *gin.Context, fallback string, fn func(companyID, documentID, userID string) (*domain.Document, error)) {
	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	doc, err := fn(companyID, c.Param("documentID"), userID)
	if err != nil {
		respondError(c, err, fallback)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// approveDocument godoc
// @Summary Approve a draft document
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /documents/{documentID}/approve [post]
func (h *documentHandler) approveDocument(c *gin.Context) {
	at := bindActionTime(c)
	h.lifecycleAction(c, "Failed to approve document", func(companyID, documentID, userID string) (*domain.Document, error) {
		return h.documentService.Approve(c.Request.Context(), companyID, documentID, at, userID)
	})
}

// sendDocument godoc
// @Summary Mark a document as sent
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /documents/{documentID}/send [post]
func (h *documentHandler) sendDocument(c *gin.Context) {
	at := bindActionTime(c)
	h.lifecycleAction(c, "Failed to send document", func(companyID, documentID, userID string) (*domain.Document, error) {
		return h.documentService.Send(c.Request.Context(), companyID, documentID, at, userID)
	})
}

// markViewed godoc
// @Summary Mark a sent estimate as viewed
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /documents/{documentID}/viewed [post]
func (h *documentHandler) markViewed(c *gin.Context) {
	h.lifecycleAction(c, "Failed to mark document viewed", func(companyID, documentID, userID string) (*domain.Document, error) {
		return h.documentService.MarkViewed(c.Request.Context(), companyID, documentID, userID)
	})
}

// acceptDocument godoc
// @Summary Accept an estimate
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /documents/{documentID}/accept [post]
func (h *documentHandler) acceptDocument(c *gin.Context) {
	h.lifecycleAction(c, "Failed to accept document", func(companyID, documentID, userID string) (*domain.Document, error) {
		return h.documentService.MarkAccepted(c.Request.Context(), companyID, documentID, userID)
	})
}

// declineDocument godoc
// @Summary Decline an estimate
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /documents/{documentID}/decline [post]
func (h *documentHandler) declineDocument(c *gin.Context) {
	h.lifecycleAction(c, "Failed to decline document", func(companyID, documentID, userID string) (*domain.Document, error) {
		return h.documentService.MarkDeclined(c.Request.Context(), companyID, documentID, userID)
	})
}

// voidDocument godoc
// @Summary Void a bill or invoice
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /documents/{documentID}/void [post]
func (h *documentHandler) voidDocument(c *gin.Context) {
	h.lifecycleAction(c, "Failed to void document", func(companyID, documentID, userID string) (*domain.Document, error) {
		return h.documentService.VoidDocument(c.Request.Context(), companyID, documentID, userID)
	})
}

// convertEstimate godoc
// @Summary Convert an accepted estimate into a draft invoice
// @Tags documents
// @Produce json
// @Param documentID path string true "Estimate ID"
// @Success 201 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /documents/{documentID}/convert [post]
func (h *documentHandler) convertEstimate(c *gin.Context) {
	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	invoice, err := h.documentService.ConvertEstimate(c.Request.Context(), companyID, c.Param("documentID"), userID)
	if err != nil {
		respondError(c, err, "Failed to convert estimate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(invoice))
}

// replicateDocument godoc
// @Summary Duplicate a document with a fresh number and initial status
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 201 {object} dto.DocumentResponse
// @Router /documents/{documentID}/replicate [post]
func (h *documentHandler) replicateDocument(c *gin.Context) {
	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	doc, err := h.documentService.Replicate(c.Request.Context(), companyID, c.Param("documentID"), userID)
	if err != nil {
		respondError(c, err, "Failed to replicate document")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// advanceSchedule godoc
// @Summary Advance a recurring invoice's schedule one occurrence
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /documents/{documentID}/advance [post]
func (h *documentHandler) advanceSchedule(c *gin.Context) {
	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	doc, err := h.scheduleService.AdvanceSchedule(c.Request.Context(), companyID, c.Param("documentID"), time.Now().UTC(), userID)
	if err != nil {
		respondError(c, err, "Failed to advance schedule")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// nextDocumentNumber godoc
// @Summary Preview the next document number for a type
// @Tags documents
// @Produce json
// @Param type query string true "Document type"
// @Success 200 {object} map[string]string
// @Router /document-numbers/next [get]
func (h *documentHandler) nextDocumentNumber(c *gin.Context) {
	_, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	typeParam := c.Query("type")
	if typeParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type is required"})
		return
	}

	number, err := h.documentService.NextDocumentNumber(c.Request.Context(), companyID, domain.DocumentType(typeParam))
	if err != nil {
		respondError(c, err, "Failed to peek next document number")
		return
	}
	c.JSON(http.StatusOK, gin.H{"documentNumber": number})
}

// createInitialTransaction godoc
// @Summary Post a document's initial recognition to the ledger
// @Tags transactions
// @Accept json
// @Produce json
// @Param documentID path string true "Document ID"
// @Param body body dto.CreateInitialTransactionRequest false "Posting date override"
// @Success 201 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Already posted"
// @Router /documents/{documentID}/transactions/initial [post]
func (h *documentHandler) createInitialTransaction(c *gin.Context) {
	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateInitialTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	txn, err := h.postingService.CreateInitialTransaction(c.Request.Context(), companyID, c.Param("documentID"), req.PostedAt, userID)
	if err != nil {
		respondError(c, err, "Failed to post initial transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// updateInitialTransaction godoc
// @Summary Re-post a document's initial recognition from its current totals
// @Tags transactions
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "No initial transaction posted"
// @Router /documents/{documentID}/transactions/initial [put]
func (h *documentHandler) updateInitialTransaction(c *gin.Context) {
	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	txn, err := h.postingService.UpdateInitialTransaction(c.Request.Context(), companyID, c.Param("documentID"), userID)
	if err != nil {
		respondError(c, err, "Failed to update initial transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// recordPayment godoc
// @Summary Record a payment against a document
// @Tags transactions
// @Accept json
// @Produce json
// @Param documentID path string true "Document ID"
// @Param payment body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Router /documents/{documentID}/payments [post]
func (h *documentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for recordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	txn, err := h.postingService.RecordPayment(c.Request.Context(), companyID, c.Param("documentID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listDocumentTransactions godoc
// @Summary List all transactions posted for a document
// @Tags transactions
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {array} dto.TransactionResponse
// @Router /documents/{documentID}/transactions [get]
func (h *documentHandler) listDocumentTransactions(c *gin.Context) {
	_, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	txns, err := h.postingService.ListDocumentTransactions(c.Request.Context(), companyID, c.Param("documentID"))
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// registerDocumentRoutes registers document, lifecycle and posting routes.
func registerDocumentRoutes(group *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, postingService portssvc.PostingSvcFacade, scheduleService portssvc.ScheduleSvcFacade) {
	handler := newDocumentHandler(documentService, postingService, scheduleService)

	group.GET("/document-numbers/next", handler.nextDocumentNumber)

	documents := group.Group("/documents")
	{
		documents.POST("", handler.createDocument)
		documents.GET("", handler.listDocuments)
		documents.GET("/:documentID", handler.getDocument)
		documents.DELETE("/:documentID", handler.deleteDocument)

		documents.POST("/:documentID/recalculate", handler.recalculateTotals)
		documents.PATCH("/:documentID/due-date", handler.updateDueDate)

		documents.POST("/:documentID/approve", handler.approveDocument)
		documents.POST("/:documentID/send", handler.sendDocument)
		documents.POST("/:documentID/viewed", handler.markViewed)
		documents.POST("/:documentID/accept", handler.acceptDocument)
		documents.POST("/:documentID/decline", handler.declineDocument)
		documents.POST("/:documentID/void", handler.voidDocument)
		documents.POST("/:documentID/convert", handler.convertEstimate)
		documents.POST("/:documentID/replicate", handler.replicateDocument)
		documents.POST("/:documentID/advance", handler.advanceSchedule)

		documents.POST("/:documentID/transactions/initial", handler.createInitialTransaction)
		documents.PUT("/:documentID/transactions/initial", handler.updateInitialTransaction)
		documents.GET("/:documentID/transactions", handler.listDocumentTransactions)
		documents.POST("/:documentID/payments", handler.recordPayment)
	}
}
