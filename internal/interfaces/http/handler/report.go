package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	ledgerapp "github.com/pocketledger/backend/internal/application/ledger"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *ledgerapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *ledgerapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Monthly godoc
// @Summary      Monthly summary report
// @Description  Income, expense and net totals for a month, with expense breakdowns by account and category. Defaults to the current month.
// @Tags         reports
// @Produce      json
// @Param        year query int false "Report year"
// @Param        month query int false "Report month (1-12)"
// @Success      200 {object} dto.Response{data=ledgerapp.MonthlyReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if raw := c.Query("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "Invalid year")
			return
		}
	}
	if raw := c.Query("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			h.BadRequest(c, "Invalid month")
			return
		}
	}

	report, err := h.reportService.Monthly(c.Request.Context(), userID, year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
