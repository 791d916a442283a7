package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dcastano/cobranza-engine/internal/domain"
	"github.com/dcastano/cobranza-engine/internal/service"
	customError "github.com/dcastano/cobranza-engine/pkg/errors"
	"github.com/dcastano/cobranza-engine/pkg/response"
)

type DebtHandler struct {
	service   *service.DebtService
	validator *validator.Validate
}

func NewDebtHandler(service *service.DebtService) *DebtHandler {
	return &DebtHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}

	var req domain.CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	resp, err := h.service.CreateDebt(r.Context(), workspaceID, &req)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, resp)
}

func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}

	direction := r.URL.Query().Get("direction")
	if direction != "" && direction != domain.DirectionReceivable && direction != domain.DirectionPayable {
		response.BadRequest(w, "direction must be RECEIVABLE or PAYABLE", nil)
		return
	}

	debts, err := h.service.ListDebts(r.Context(), workspaceID, direction)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, debts)
}

func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}
	debtID, ok := pathUUID(w, r, "debtId")
	if !ok {
		return
	}

	resp, err := h.service.GetDebt(r.Context(), workspaceID, debtID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *DebtHandler) Update(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}
	debtID, ok := pathUUID(w, r, "debtId")
	if !ok {
		return
	}

	var req domain.UpdateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	resp, err := h.service.UpdateDebt(r.Context(), workspaceID, debtID, &req)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}
	debtID, ok := pathUUID(w, r, "debtId")
	if !ok {
		return
	}

	if err := h.service.DeleteDebt(r.Context(), workspaceID, debtID); err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"deleted": debtID.String()})
}

func (h *DebtHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}
	debtID, ok := pathUUID(w, r, "debtId")
	if !ok {
		return
	}

	var req domain.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	resp, err := h.service.RecordPayment(r.Context(), workspaceID, debtID, &req)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, resp)
}

func (h *DebtHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}
	debtID, ok := pathUUID(w, r, "debtId")
	if !ok {
		return
	}

	payments, err := h.service.ListPayments(r.Context(), workspaceID, debtID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, payments)
}

func (h *DebtHandler) AddPromise(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathUUID(w, r, "workspaceId")
	if !ok {
		return
	}
	debtID, ok := pathUUID(w, r, "debtId")
	if !ok {
		return
	}

	var req domain.CreatePromiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	promise, err := h.service.RecordPromise(r.Context(), workspaceID, debtID, &req)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, promise)
}

// pathUUID parses a UUID path variable, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

// writeBusinessError maps business error codes to HTTP statuses.
func writeBusinessError(w http.ResponseWriter, err error) {
	var be *customError.BusinessError
	if errors.As(err, &be) {
		switch be.Code {
		case customError.ErrCodeDebtNotFound, customError.ErrCodePersonNotFound:
			response.NotFound(w, be.Message)
			return
		case customError.ErrCodeValidation, customError.ErrCodeInvalidPayment:
			response.BadRequest(w, be.Message, be.Err)
			return
		}
	}
	response.InternalServerError(w, "internal error", err)
}
