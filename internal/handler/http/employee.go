package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetByBadge(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.EmployeeService
	translator      *i18n.Translator
}

func NewEmployeeHandler(employeeService employee.EmployeeService, translator *i18n.Translator) EmployeeHandler {
	return &EmployeeHandlerImpl{
		employeeService: employeeService,
		translator:      translator,
	}
}

// Create implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req, "Create employee") {
		return
	}

	created, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create employee service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, h.translator.T(r.Context(), "employee.created"), created)
}

// List implements EmployeeHandler.
func (h *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	employees, err := h.employeeService.List(r.Context(), employee.Filter{
		Search:     q.Get("search"),
		Department: q.Get("department"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "employee.listed"), employees, &response.Meta{TotalItems: len(employees)})
}

// Get implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.employeeService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "employee.retrieved"), found)
}

// GetByBadge implements EmployeeHandler.
func (h *EmployeeHandlerImpl) GetByBadge(w http.ResponseWriter, r *http.Request) {
	found, err := h.employeeService.GetByBadge(r.Context(), chi.URLParam(r, "badge"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "employee.retrieved"), found)
}

// Update implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req, "Update employee") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.employeeService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update employee service error", "employee_id", req.ID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "employee.updated"), updated)
}

// Delete implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.employeeService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("Employee deleted", "employee_id", id)
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "employee.deleted"), nil)
}
