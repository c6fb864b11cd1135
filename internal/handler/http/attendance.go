package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
)

type AttendanceHandler interface {
	Scan(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	OpenCheckouts(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	translator        *i18n.Translator
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, translator *i18n.Translator) AttendanceHandler {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
		translator:        translator,
	}
}

// Scan implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req attendance.ScanRequest
	if !decodeJSON(w, r, &req, "Scan") {
		return
	}

	scan, err := h.attendanceService.Scan(r.Context(), req)
	if err != nil {
		slog.Warn("Scan rejected", "rfid_card_no", req.BadgeID, "error", err)
		response.HandleError(w, err)
		return
	}

	at := scan.Attendance.CheckIn
	messageID := "attendance.check_in"
	if scan.Action == attendance.ScanCheckOut {
		at = scan.Attendance.CheckOut
		messageID = "attendance.check_out"
	}
	clock := ""
	if at != nil {
		clock = at.Format("3:04 PM")
	}

	slog.Info("Scan recorded", "rfid_card_no", req.BadgeID, "action", scan.Action)
	response.SuccessWithMessage(w, h.translator.T(r.Context(), messageID, map[string]any{
		"Name": scan.EmployeeName,
		"Time": clock,
	}), scan)
}

// Today implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendanceService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "attendance.listed"), records, &response.Meta{TotalItems: len(records)})
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := attendance.ListRequest{
		From:    q.Get("from"),
		To:      q.Get("to"),
		BadgeID: q.Get("badge"),
	}

	records, err := h.attendanceService.ListRange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "attendance.listed"), records, &response.Meta{
		TotalItems: len(records),
		From:       req.From,
		To:         req.To,
	})
}

// OpenCheckouts implements AttendanceHandler.
func (h *AttendanceHandlerImpl) OpenCheckouts(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendanceService.OpenCheckouts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "attendance.listed"), records, &response.Meta{TotalItems: len(records)})
}
