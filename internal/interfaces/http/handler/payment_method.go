package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/pocketledger/backend/internal/application/ledger"
)

// PaymentMethodHandler handles payment method API endpoints
type PaymentMethodHandler struct {
	BaseHandler
	methodService *ledgerapp.PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler
func NewPaymentMethodHandler(methodService *ledgerapp.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		methodService: methodService,
	}
}

// Create godoc
// @Summary      Create a payment method
// @Description  Add a payment method to an account. CARD methods require closing and due days.
// @Tags         payment-methods
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Param        request body ledgerapp.CreatePaymentMethodRequest true "Payment method creation request"
// @Success      201 {object} dto.Response{data=ledgerapp.PaymentMethodResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounts/{id}/payment-methods [post]
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var req ledgerapp.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	method, err := h.methodService.Create(c.Request.Context(), userID, accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, method)
}

// ListByAccount godoc
// @Summary      List payment methods of an account
// @Tags         payment-methods
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]ledgerapp.PaymentMethodResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounts/{id}/payment-methods [get]
func (h *PaymentMethodHandler) ListByAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	methods, err := h.methodService.List(c.Request.Context(), userID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, methods)
}

// Get godoc
// @Summary      Get payment method by ID
// @Tags         payment-methods
// @Produce      json
// @Param        id path string true "Payment method ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.PaymentMethodResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-methods/{id} [get]
func (h *PaymentMethodHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	method, err := h.methodService.Get(c.Request.Context(), userID, methodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, method)
}

// Update godoc
// @Summary      Update a payment method
// @Description  Update a payment method. Billing days of a card can only change while it has no open invoices.
// @Tags         payment-methods
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment method ID" format(uuid)
// @Param        request body ledgerapp.UpdatePaymentMethodRequest true "Payment method update request"
// @Success      200 {object} dto.Response{data=ledgerapp.PaymentMethodResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-methods/{id} [put]
func (h *PaymentMethodHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	var req ledgerapp.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	method, err := h.methodService.Update(c.Request.Context(), userID, methodID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, method)
}

// Delete godoc
// @Summary      Delete a payment method
// @Description  Delete a payment method. Methods referenced by transactions cannot be deleted.
// @Tags         payment-methods
// @Produce      json
// @Param        id path string true "Payment method ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payment-methods/{id} [delete]
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	if err := h.methodService.Delete(c.Request.Context(), userID, methodID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
