package handler

import (
	"net/http"
	"time"

	"github.com/dcastano/cobranza-engine/internal/domain"
	"github.com/dcastano/cobranza-engine/internal/service"
	"github.com/dcastano/cobranza-engine/pkg/response"
)

type AlertHandler struct {
	service *service.AlertService
}

func NewAlertHandler(service *service.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

// Get returns the classified, summarized alert set for a workspace. The same
// service call backs the digest composer; this endpoint is the on-demand view.
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}

	direction := r.URL.Query().Get("direction")
	if direction != "" && direction != domain.DirectionReceivable && direction != domain.DirectionPayable {
		response.BadRequest(w, "direction must be RECEIVABLE or PAYABLE", nil)
		return
	}

	alerts, err := h.service.GetAlerts(r.Context(), workspaceID, direction, time.Now())
	if err != nil {
		response.InternalServerError(w, "failed to compute alerts", err)
		return
	}

	response.Success(w, alerts)
}
