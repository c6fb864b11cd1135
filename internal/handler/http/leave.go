package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	translator   *i18n.Translator
}

func NewLeaveHandler(leaveService leave.LeaveService, translator *i18n.Translator) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		translator:   translator,
	}
}

// Apply implements LeaveHandler.
func (h *LeaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req leave.ApplyLeaveRequest
	if !decodeJSON(w, r, &req, "Apply leave") {
		return
	}

	created, err := h.leaveService.Apply(r.Context(), principal, req)
	if err != nil {
		slog.Error("Apply leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Leave applied", "leave_id", created.ID, "employee_id", created.EmployeeID)
	response.Created(w, h.translator.T(r.Context(), "leave.applied"), created)
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leaves, err := h.leaveService.List(r.Context(), leave.ListLeaveRequest{
		EmployeeID: q.Get("employee_id"),
		Status:     q.Get("status"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "leave.listed"), leaves, &response.Meta{TotalItems: len(leaves)})
}

// Today implements LeaveHandler.
func (h *LeaveHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.leaveService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "leave.listed"), leaves, &response.Meta{TotalItems: len(leaves)})
}

// Get implements LeaveHandler.
func (h *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	found, err := h.leaveService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	// Hide other employees' requests behind a 404.
	if !principal.CanActFor(found.EmployeeID) {
		response.HandleError(w, leave.ErrLeaveNotFound)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "leave.retrieved"), found)
}

// ListByEmployee implements LeaveHandler.
func (h *LeaveHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	leaves, err := h.leaveService.ListByEmployee(r.Context(), principal, chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "leave.listed"), leaves, &response.Meta{TotalItems: len(leaves)})
}

// Decide implements LeaveHandler.
func (h *LeaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req leave.DecideLeaveRequest
	if !decodeJSON(w, r, &req, "Decide leave") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	decided, err := h.leaveService.Decide(r.Context(), principal, req)
	if err != nil {
		slog.Error("Decide leave service error", "leave_id", req.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Leave decided", "leave_id", decided.ID, "status", decided.Status, "decided_by", principal.UserID)
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "leave.decided"), decided)
}
