package report

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type PersonReportRequest struct {
	From    string
	To      string
	BadgeID string
}

func (r *PersonReportRequest) Validate() error {
	return requireParams(map[string]string{"from": r.From, "to": r.To, "badge": r.BadgeID}, "from", "to", "badge")
}

type RegisterRequest struct {
	From       string
	To         string
	EmployeeID string
}

func (r *RegisterRequest) Validate() error {
	return requireParams(map[string]string{"from": r.From, "to": r.To}, "from", "to")
}

func requireParams(values map[string]string, order ...string) error {
	var missing []string
	for _, name := range order {
		if validator.IsEmpty(values[name]) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingParameter, strings.Join(missing, ", "))
	}
	return nil
}

type EmployeeInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmployeeCode string `json:"employee_code"`
	BadgeID      string `json:"rfid_card_no"`
}

type Summary struct {
	TotalDays    int            `json:"total_days"`
	Present      int            `json:"present"`
	Late         int            `json:"late"`
	Early        int            `json:"early"`
	Permission   int            `json:"permission"`
	Leave        int            `json:"leave"`
	CompanyLeave int            `json:"company_leave"`
	Absent       int            `json:"absent"`
	LeaveByType  map[string]int `json:"leave_by_type"`
}

type DailyStatus struct {
	Date         string `json:"date"`
	Status       string `json:"status"`
	CheckInTime  string `json:"check_in_time,omitempty"`
	CheckOutTime string `json:"check_out_time,omitempty"`
	Detail       string `json:"details,omitempty"`
	Late         bool   `json:"late"`
	Early        bool   `json:"early"`
}

type PersonReport struct {
	FromDate      string        `json:"from_date"`
	ToDate        string        `json:"to_date"`
	Employee      EmployeeInfo  `json:"employee"`
	Summary       Summary       `json:"summary"`
	DailyStatuses []DailyStatus `json:"daily_statuses"`
}

type RegisterRow struct {
	Date         string `json:"date"`
	EmployeeID   string `json:"employee_id"`
	Name         string `json:"name"`
	EmployeeCode string `json:"employee_code"`
	BadgeID      string `json:"rfid_card_no"`
	Status       string `json:"status"`
	CheckInTime  string `json:"check_in_time,omitempty"`
	CheckOutTime string `json:"check_out_time,omitempty"`
	Detail       string `json:"details,omitempty"`
}

type RegisterReport struct {
	FromDate string        `json:"from_date"`
	ToDate   string        `json:"to_date"`
	Rows     []RegisterRow `json:"rows"`
}

type MonthTotals struct {
	Employee       EmployeeInfo `json:"employee"`
	PresentDays    int          `json:"total_present_days"`
	AbsentDays     int          `json:"total_absent_days"`
	LateDays       int          `json:"total_late_days"`
	EarlyDays      int          `json:"total_early_days"`
	PermissionDays int          `json:"total_permission_days"`
	SickLeaves     int          `json:"total_sick_leaves"`
	CasualLeaves   int          `json:"total_casual_leaves"`
}

type MonthTotalsReport struct {
	FromDate  string        `json:"from_date"`
	ToDate    string        `json:"to_date"`
	Employees []MonthTotals `json:"employees"`
}

type QuotaPair struct {
	Sick     int `json:"sick"`
	Personal int `json:"personal"`
}

type LeaveBalance struct {
	EmployeeID  string    `json:"employee_id"`
	Entitlement QuotaPair `json:"entitlement"`
	Taken       QuotaPair `json:"taken"`
	Available   QuotaPair `json:"available"`
}
