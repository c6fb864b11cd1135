package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	PersonReport(w http.ResponseWriter, r *http.Request)
	MyReport(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
	MonthTotals(w http.ResponseWriter, r *http.Request)
	LeaveBalance(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
	translator    *i18n.Translator
}

func NewReportHandler(reportService report.ReportService, translator *i18n.Translator) ReportHandler {
	return &ReportHandlerImpl{
		reportService: reportService,
		translator:    translator,
	}
}

// PersonReport implements ReportHandler.
func (h *ReportHandlerImpl) PersonReport(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	req := report.PersonReportRequest{
		From:    q.Get("from"),
		To:      q.Get("to"),
		BadgeID: q.Get("badge"),
	}

	result, err := h.reportService.PersonReport(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "report.generated"), result)
}

// MyReport implements ReportHandler.
func (h *ReportHandlerImpl) MyReport(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.MyReport(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "report.generated"), result)
}

// Register implements ReportHandler.
func (h *ReportHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := report.RegisterRequest{
		From:       q.Get("from"),
		To:         q.Get("to"),
		EmployeeID: q.Get("employee_id"),
	}

	result, err := h.reportService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "report.generated"), result.Rows, &response.Meta{
		TotalItems: len(result.Rows),
		From:       result.FromDate,
		To:         result.ToDate,
	})
}

// MonthTotals implements ReportHandler.
func (h *ReportHandlerImpl) MonthTotals(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.MonthTotals(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "report.generated"), result.Employees, &response.Meta{
		TotalItems: len(result.Employees),
		From:       result.FromDate,
		To:         result.ToDate,
	})
}

// LeaveBalance implements ReportHandler.
func (h *ReportHandlerImpl) LeaveBalance(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	balance, err := h.reportService.LeaveBalance(r.Context(), principal, chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "leave.balance"), balance)
}
