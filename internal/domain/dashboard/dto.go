package dashboard

// Room is the broker room dashboard snapshots are published to.
const Room = "dashboard"

type ChartPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type LateComer struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	BadgeID    string `json:"rfid_card_no"`
	CheckIn    string `json:"check_in_time"`
}

type DashboardResponse struct {
	Date            string       `json:"date"`
	TotalEmployees  int          `json:"total_employees"`
	PresentCount    int          `json:"present_count"`
	OnTimeCount     int          `json:"on_time_count"`
	LateCount       int          `json:"late_count"`
	EarlyGoingCount int          `json:"early_going_count"`
	CheckOutCount   int          `json:"check_out_count"`
	PermissionCount int          `json:"permission_count"`
	OnLeaveCount    int          `json:"on_leave_count"`
	AbsentCount     int          `json:"absent_count"`
	RestDayCount    int          `json:"rest_day_count"`
	Chart           []ChartPoint `json:"chart_data"`
	LateComers      []LateComer  `json:"late_comers"`
}
