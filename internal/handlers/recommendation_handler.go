package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "financeai/internal/errors"
	"financeai/internal/models"
	"financeai/internal/pagination"
	"financeai/internal/services"
)

// RecommendationHandler handles recommendation-related requests.
type RecommendationHandler struct {
	recommendationService services.RecommendationServicer
	auditService          services.AuditServicer
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recommendationService services.RecommendationServicer, auditService services.AuditServicer) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService, auditService: auditService}
}

// UpdateRecommendationStatusRequest represents the request payload for updating a recommendation status
type UpdateRecommendationStatusRequest struct {
	Status models.RecommendationStatus `json:"status" binding:"required,recommendation_status"`
}

// GenerateRecommendations evaluates the recommendation rules for the user
// @Summary     Generate recommendations
// @Description Evaluate the recommendation rules against the current month's activity. Rules that already produced a pending recommendation of the same type within the last 30 days are skipped.
// @Tags        recommendations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     201 {array} models.Recommendation "Newly created recommendations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recommendations/generate [post]
func (h *RecommendationHandler) GenerateRecommendations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	created, err := h.recommendationService.CreateRecommendationsForUser(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(created) > 0 {
		h.auditService.Log(userID, "GENERATE_RECOMMENDATIONS", "recommendation", "", c.ClientIP(),
			map[string]interface{}{"created": len(created)})
	}

	// A nil slice serializes as null; the list is always an array.
	if created == nil {
		created = []models.Recommendation{}
	}
	c.JSON(http.StatusCreated, gin.H{"recommendations": created})
}

// GetUserRecommendations handles the retrieval of all recommendations for the authenticated user
// @Summary     Get user recommendations
// @Description Get a paginated list of the user's recommendations with optional status and priority filters, newest first
// @Tags        recommendations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       status    query string false "Filter by status (pending, in_progress, completed, dismissed)"
// @Param       priority  query string false "Filter by priority (low, medium, high, urgent)"
// @Success     200 {object} pagination.PageResponse[models.Recommendation] "Paginated recommendations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recommendations [get]
func (h *RecommendationHandler) GetUserRecommendations(c *gin.Context) {
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

	var filter services.RecommendationFilter
	if v := c.Query("status"); v != "" {
		status := models.RecommendationStatus(v)
		switch status {
		case models.RecommendationStatusPending, models.RecommendationStatusInProgress,
			models.RecommendationStatusCompleted, models.RecommendationStatusDismissed:
			filter.Status = &status
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid recommendation status"))
			return
		}
	}
	if v := c.Query("priority"); v != "" {
		priority := models.RecommendationPriority(v)
		switch priority {
		case models.RecommendationPriorityLow, models.RecommendationPriorityMedium,
			models.RecommendationPriorityHigh, models.RecommendationPriorityUrgent:
			filter.Priority = &priority
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid recommendation priority"))
			return
		}
	}

	result, err := h.recommendationService.GetUserRecommendations(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateRecommendationStatus handles the status transition of a recommendation
// @Summary     Update recommendation status
// @Description Move a pending recommendation to in_progress, completed or dismissed. Completing records the implementation time. Non-pending recommendations cannot change status.
// @Tags        recommendations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                            true "Recommendation ID"
// @Param       request body UpdateRecommendationStatusRequest true "New status"
// @Success     200 {object} models.Recommendation "Updated recommendation"
// @Failure     400 {object} ErrorResponse "Invalid input or status change"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recommendation not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recommendations/{id}/status [patch]
func (h *RecommendationHandler) UpdateRecommendationStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recommendationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecommendationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recommendation, err := h.recommendationService.UpdateStatus(userID, recommendationID, req.Status, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_RECOMMENDATION_STATUS", "recommendation", recommendationID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"recommendation": recommendation})
}
