package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/pocketledger/backend/internal/application/ledger"
	"github.com/pocketledger/backend/internal/domain/ledger"
)

// BankTransferHandler handles bank transfer API endpoints
type BankTransferHandler struct {
	BaseHandler
	transferService *ledgerapp.BankTransferService
}

// NewBankTransferHandler creates a new BankTransferHandler
func NewBankTransferHandler(transferService *ledgerapp.BankTransferService) *BankTransferHandler {
	return &BankTransferHandler{
		transferService: transferService,
	}
}

// Create godoc
// @Summary      Transfer money between accounts
// @Description  Debit one account and credit another atomically
// @Tags         bank-transfers
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.CreateBankTransferRequest true "Transfer request"
// @Success      201 {object} dto.Response{data=ledgerapp.BankTransferResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-transfers [post]
func (h *BankTransferHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ledgerapp.CreateBankTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transfer)
}

// List godoc
// @Summary      List bank transfers
// @Description  Retrieve a paginated list of transfers with optional filters
// @Tags         bank-transfers
// @Produce      json
// @Param        account_id query string false "Account filter (either side of the transfer)" format(uuid)
// @Param        date_from query string false "Start date (RFC3339)"
// @Param        date_to query string false "End date (RFC3339)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]ledgerapp.BankTransferResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-transfers [get]
func (h *BankTransferHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter := ledger.BankTransferFilter{Page: 1, PageSize: 20}

	if raw := c.Query("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid account ID format")
			return
		}
		filter.AccountID = &id
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid date_from format")
			return
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid date_to format")
			return
		}
		filter.DateTo = &to
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil && size > 0 {
		filter.PageSize = size
	}

	transfers, total, err := h.transferService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, transfers, total, filter.Page, filter.PageSize)
}
