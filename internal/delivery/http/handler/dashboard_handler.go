package handler

import (
	"net/http"

	"jrcts-claim-tracker/internal/usecase"
	"jrcts-claim-tracker/pkg/response"
)

// dashboardRefreshSeconds is how often the dashboard view reloads itself.
const dashboardRefreshSeconds = "300"

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
	}
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardUsecase.GetDashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to build dashboard")
		return
	}

	w.Header().Set("Refresh", dashboardRefreshSeconds)
	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}
