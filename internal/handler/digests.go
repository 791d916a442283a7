package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dcastano/cobranza-engine/internal/service"
	"github.com/dcastano/cobranza-engine/pkg/response"
)

type DigestHandler struct {
	service   *service.DigestService
	validator *validator.Validate
}

func NewDigestHandler(service *service.DigestService) *DigestHandler {
	return &DigestHandler{
		service:   service,
		validator: validator.New(),
	}
}

// RunDaily triggers the daily digest run for a workspace on demand and
// returns the per-recipient outcomes.
func (h *DigestHandler) RunDaily(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}

	result, err := h.service.RunDaily(r.Context(), workspaceID, time.Now())
	if err != nil {
		response.InternalServerError(w, "daily digest run failed", err)
		return
	}

	response.Success(w, result)
}

// RunWeekly triggers the weekly digest run for a workspace on demand.
func (h *DigestHandler) RunWeekly(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}

	result, err := h.service.RunWeekly(r.Context(), workspaceID, time.Now())
	if err != nil {
		response.InternalServerError(w, "weekly digest run failed", err)
		return
	}

	response.Success(w, result)
}

type sendTestRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
}

// SendTest sends a test digest to one recipient, bypassing dedup.
func (h *DigestHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}

	var req sendTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.service.SendTest(r.Context(), workspaceID, req.Recipient, time.Now())
	if err != nil {
		response.InternalServerError(w, "test digest failed", err)
		return
	}

	response.Success(w, result)
}
