package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "financeai/internal/errors"
	"financeai/internal/models"
	"financeai/internal/pagination"
	"financeai/internal/services"
)

// ReportHandler handles stored report requests.
type ReportHandler struct {
	reportService services.ReportServicer
	auditService  services.AuditServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, auditService services.AuditServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, auditService: auditService}
}

// CreateReportRequest represents the request payload for storing a report
type CreateReportRequest struct {
	Title       string            `json:"title" binding:"required,max=255"`
	Type        models.ReportType `json:"type" binding:"required,report_type"`
	PeriodStart string            `json:"period_start" binding:"required"`
	PeriodEnd   string            `json:"period_end" binding:"required"`
	Data        models.JSONMap    `json:"data" binding:"required"`
	AIInsights  models.JSONMap    `json:"ai_insights"`
}

// CreateReport handles storing a new report document
// @Summary     Create a report
// @Description Store a pre-computed report document for a period. The period end must not precede the start.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateReportRequest true "Report details"
// @Success     201 {object} models.Report "Report created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	periodStart, err := parseFlexibleTime(req.PeriodStart)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	periodEnd, err := parseFlexibleTime(req.PeriodEnd)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	report, err := h.reportService.CreateReport(userID, services.CreateReportInput{
		Title:       req.Title,
		Type:        req.Type,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Data:        req.Data,
		AIInsights:  req.AIInsights,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_REPORT", "report", report.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type})

	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// GetUserReports handles the retrieval of all reports for the authenticated user
// @Summary     Get user reports
// @Description Get a paginated list of the user's stored reports, newest first
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Report] "Paginated reports"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports [get]
func (h *ReportHandler) GetUserReports(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.reportService.GetUserReports(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetReportByID handles the retrieval of a specific report
// @Summary     Get report by ID
// @Description Get a specific stored report with its data and insights documents
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Report ID"
// @Success     200 {object} models.Report "Report details"
// @Failure     400 {object} ErrorResponse "Invalid report ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Report not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/{id} [get]
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reportID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GetReportByID(userID, reportID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
