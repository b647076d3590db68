package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"financeai/internal/services"
)

// DashboardHandler handles dashboard-related requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSnapshot handles the retrieval of the dashboard snapshot
// @Summary     Get dashboard snapshot
// @Description Get the financial overview for the current calendar month: account totals by type, net worth, monthly income and expenses, health score, recent transactions and top open recommendations
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardSnapshot "Dashboard snapshot"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetSnapshot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.dashboardService.GetSnapshot(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
