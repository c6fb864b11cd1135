package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
)

type DashboardHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
}

type DashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	translator       *i18n.Translator
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, translator *i18n.Translator) DashboardHandler {
	return &DashboardHandlerImpl{
		dashboardService: dashboardService,
		translator:       translator,
	}
}

// Today implements DashboardHandler.
func (h *DashboardHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.dashboardService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "dashboard.retrieved"), snapshot)
}
