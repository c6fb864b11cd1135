package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const (
	ScanCheckIn  = "check_in"
	ScanCheckOut = "check_out"
)

type ScanRequest struct {
	BadgeID string `json:"rfid_card_no"`
}

func (r *ScanRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("rfid_card_no", r.BadgeID)
	return errs.Err()
}

type ScanResponse struct {
	Action       string             `json:"action"`
	EmployeeName string             `json:"employee_name"`
	Attendance   AttendanceResponse `json:"attendance"`
}

type ListRequest struct {
	From    string
	To      string
	BadgeID string
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("from", r.From)
	errs.Required("to", r.To)
	from, okFrom := validator.IsValidDate(r.From)
	to, okTo := validator.IsValidDate(r.To)
	if !validator.IsEmpty(r.From) && !okFrom {
		errs.Add("from", "from must be in YYYY-MM-DD format")
	}
	if !validator.IsEmpty(r.To) && !okTo {
		errs.Add("to", "to must be in YYYY-MM-DD format")
	}
	if okFrom && okTo && to.Before(from) {
		errs.Add("to", "to must not be before from")
	}
	return errs.Err()
}

type AttendanceResponse struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	BadgeID    string     `json:"rfid_card_no"`
	Date       string     `json:"date"`
	CheckIn    *time.Time `json:"check_in_time,omitempty"`
	CheckOut   *time.Time `json:"check_out_time,omitempty"`
	Status     string     `json:"status"`
	WasLate    bool       `json:"was_late"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		BadgeID:    a.BadgeID,
		Date:       a.Date,
		CheckIn:    a.CheckIn,
		CheckOut:   a.CheckOut,
		Status:     a.Status,
		WasLate:    a.WasLate,
	}
}
