package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/pocketledger/backend/internal/application/ledger"
	"github.com/pocketledger/backend/internal/domain/ledger"
)

// CardInvoiceHandler handles card invoice API endpoints
type CardInvoiceHandler struct {
	BaseHandler
	invoiceService *ledgerapp.CardInvoiceService
}

// NewCardInvoiceHandler creates a new CardInvoiceHandler
func NewCardInvoiceHandler(invoiceService *ledgerapp.CardInvoiceService) *CardInvoiceHandler {
	return &CardInvoiceHandler{
		invoiceService: invoiceService,
	}
}

// Get godoc
// @Summary      Get card invoice by ID
// @Tags         card-invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.CardInvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /card-invoices/{id} [get]
func (h *CardInvoiceHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), userID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @Summary      List card invoices
// @Description  Retrieve a paginated list of card invoices with optional filters
// @Tags         card-invoices
// @Produce      json
// @Param        payment_method_id query string false "Payment method filter" format(uuid)
// @Param        account_id query string false "Account filter" format(uuid)
// @Param        status query string false "Status filter" Enums(OPEN, CLOSED, PAID)
// @Param        year query int false "Billing period year"
// @Param        month query int false "Billing period month (1-12)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]ledgerapp.CardInvoiceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /card-invoices [get]
func (h *CardInvoiceHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, err := parseInvoiceFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid filter parameter")
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// parseInvoiceFilter builds an invoice filter from query parameters
func parseInvoiceFilter(c *gin.Context) (ledger.CardInvoiceFilter, error) {
	filter := ledger.CardInvoiceFilter{Page: 1, PageSize: 20}

	if raw := c.Query("payment_method_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.PaymentMethodID = &id
	}
	if raw := c.Query("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.AccountID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := ledger.CardInvoiceStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.Year = &year
	}
	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		month := time.Month(m)
		filter.Month = &month
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		if page > 0 {
			filter.Page = page
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		if size > 0 {
			filter.PageSize = size
		}
	}

	return filter, nil
}

// Pay godoc
// @Summary      Pay a card invoice
// @Description  Pay an invoice from an account. The paying account is debited by the invoice total; later changes to a paid invoice are mirrored on the payer automatically.
// @Tags         card-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body ledgerapp.PayInvoiceRequest true "Invoice payment request"
// @Success      200 {object} dto.Response{data=ledgerapp.CardInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /card-invoices/{id}/pay [post]
func (h *CardInvoiceHandler) Pay(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req ledgerapp.PayInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Pay(c.Request.Context(), userID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// CancelPayment godoc
// @Summary      Cancel an invoice payment
// @Description  Revert a paid invoice to open and refund the paying account
// @Tags         card-invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.CardInvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /card-invoices/{id}/cancel-payment [post]
func (h *CardInvoiceHandler) CancelPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.CancelPayment(c.Request.Context(), userID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// UpdateTotal godoc
// @Summary      Correct an invoice total
// @Description  Manually set an invoice total. If the invoice is already paid, the difference is applied to the paying account.
// @Tags         card-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body ledgerapp.UpdateInvoiceTotalRequest true "Invoice total update request"
// @Success      200 {object} dto.Response{data=ledgerapp.CardInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /card-invoices/{id}/total [put]
func (h *CardInvoiceHandler) UpdateTotal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req ledgerapp.UpdateInvoiceTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateTotal(c.Request.Context(), userID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete godoc
// @Summary      Delete a card invoice
// @Description  Delete an empty, unpaid invoice
// @Tags         card-invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /card-invoices/{id} [delete]
func (h *CardInvoiceHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), userID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
