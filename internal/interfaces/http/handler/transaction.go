package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/pocketledger/backend/internal/application/ledger"
	"github.com/pocketledger/backend/internal/domain/ledger"
)

// TransactionHandler handles transaction API endpoints
type TransactionHandler struct {
	BaseHandler
	postingService *ledgerapp.PostingService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(postingService *ledgerapp.PostingService) *TransactionHandler {
	return &TransactionHandler{
		postingService: postingService,
	}
}

// TransactionListQuery represents transaction list filter parameters
// @Description Query parameters for listing transactions
type TransactionListQuery struct {
	AccountID       string `form:"account_id"`
	CategoryID      string `form:"category_id"`
	PaymentMethodID string `form:"payment_method_id"`
	CardInvoiceID   string `form:"card_invoice_id"`
	Type            string `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	DateFrom        string `form:"date_from"`
	DateTo          string `form:"date_to"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
}

func (q TransactionListQuery) toFilter() (ledger.TransactionFilter, error) {
	filter := ledger.TransactionFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	for _, f := range []struct {
		raw  string
		dest **uuid.UUID
	}{
		{q.AccountID, &filter.AccountID},
		{q.CategoryID, &filter.CategoryID},
		{q.PaymentMethodID, &filter.PaymentMethodID},
		{q.CardInvoiceID, &filter.CardInvoiceID},
	} {
		if f.raw == "" {
			continue
		}
		id, err := uuid.Parse(f.raw)
		if err != nil {
			return filter, err
		}
		*f.dest = &id
	}

	if q.Type != "" {
		txType := ledger.TransactionType(q.Type)
		filter.Type = &txType
	}
	if q.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, q.DateFrom)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.Parse(time.RFC3339, q.DateTo)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &to
	}

	return filter, nil
}

// Create godoc
// @Summary      Create a transaction
// @Description  Post an income or expense. Card purchases may be split into installments; each installment lands on the card invoice of its own billing period.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.CreateTransactionRequest true "Transaction creation request"
// @Success      201 {object} dto.Response{data=ledgerapp.TransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ledgerapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transaction, err := h.postingService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transaction)
}

// Get godoc
// @Summary      Get transaction by ID
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.TransactionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	transaction, err := h.postingService.Get(c.Request.Context(), userID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transaction)
}

// List godoc
// @Summary      List transactions
// @Description  Retrieve a paginated list of transactions with optional filters
// @Tags         transactions
// @Produce      json
// @Param        account_id query string false "Account filter" format(uuid)
// @Param        category_id query string false "Category filter" format(uuid)
// @Param        payment_method_id query string false "Payment method filter" format(uuid)
// @Param        card_invoice_id query string false "Card invoice filter" format(uuid)
// @Param        type query string false "Transaction type filter" Enums(INCOME, EXPENSE)
// @Param        date_from query string false "Start date (RFC3339)"
// @Param        date_to query string false "End date (RFC3339)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]ledgerapp.TransactionResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, "Invalid filter parameter")
		return
	}

	transactions, total, err := h.postingService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a transaction
// @Description  Update a transaction. The ledger re-posts it, moving balances and invoice totals from the old values to the new ones atomically.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body ledgerapp.UpdateTransactionRequest true "Transaction update request"
// @Success      200 {object} dto.Response{data=ledgerapp.TransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	var req ledgerapp.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transaction, err := h.postingService.Update(c.Request.Context(), userID, transactionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transaction)
}

// Delete godoc
// @Summary      Delete a transaction
// @Description  Delete a transaction and reverse its effect on balances and invoice totals
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	if err := h.postingService.Delete(c.Request.Context(), userID, transactionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
