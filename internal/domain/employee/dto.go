package employee

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	BadgeID       string `json:"rfid_card_no"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmployeeCode  string `json:"employee_code"`
	Designation   string `json:"designation"`
	Department    string `json:"department"`
	Mobile        string `json:"mobile_no"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
	DateOfBirth   string `json:"dob"`
	JoiningDate   string `json:"joining_date"`
	Address       string `json:"address"`
	PhotoURL      string `json:"photo_url,omitempty"`

	dob     time.Time
	joining time.Time
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	errs.Required("rfid_card_no", r.BadgeID)
	if !validator.IsEmpty(r.BadgeID) && !validator.IsValidBadge(r.BadgeID) {
		errs.Add("rfid_card_no", "rfid_card_no must be 4-32 letters or digits")
	}
	errs.Required("name", r.Name)
	errs.Required("email", r.Email)
	if !validator.IsEmpty(r.Email) && !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	errs.Required("employee_code", r.EmployeeCode)
	errs.Required("designation", r.Designation)
	errs.Required("department", r.Department)
	errs.Required("mobile_no", r.Mobile)
	if !validator.IsEmpty(r.Mobile) && !validator.IsValidPhoneNumber(r.Mobile) {
		errs.Add("mobile_no", "mobile_no must contain 7-15 digits")
	}
	errs.Required("gender", r.Gender)
	errs.Required("marital_status", r.MaritalStatus)
	errs.Required("address", r.Address)

	if validator.IsEmpty(r.DateOfBirth) {
		errs.Add("dob", "dob is required")
	} else if d, ok := validator.IsValidDate(r.DateOfBirth); !ok {
		errs.Add("dob", "dob must be in YYYY-MM-DD format")
	} else {
		r.dob = d
	}
	if validator.IsEmpty(r.JoiningDate) {
		errs.Add("joining_date", "joining_date is required")
	} else if d, ok := validator.IsValidDate(r.JoiningDate); !ok {
		errs.Add("joining_date", "joining_date must be in YYYY-MM-DD format")
	} else {
		r.joining = d
	}

	return errs.Err()
}

// ToEntity builds a new employee with default quotas. Call Validate first.
func (r *CreateEmployeeRequest) ToEntity() Employee {
	return Employee{
		BadgeID:       r.BadgeID,
		Name:          r.Name,
		Email:         r.Email,
		EmployeeCode:  r.EmployeeCode,
		Designation:   r.Designation,
		Department:    r.Department,
		Mobile:        r.Mobile,
		Gender:        r.Gender,
		MaritalStatus: r.MaritalStatus,
		DateOfBirth:   r.dob,
		JoiningDate:   r.joining,
		Address:       r.Address,
		PhotoURL:      r.PhotoURL,
		SickLeave:     DefaultSickLeave,
		PersonalLeave: DefaultPersonalLeave,
	}
}

type UpdateEmployeeRequest struct {
	ID            string  `json:"-"`
	BadgeID       *string `json:"rfid_card_no,omitempty"`
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	EmployeeCode  *string `json:"employee_code,omitempty"`
	Designation   *string `json:"designation,omitempty"`
	Department    *string `json:"department,omitempty"`
	Mobile        *string `json:"mobile_no,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	MaritalStatus *string `json:"marital_status,omitempty"`
	DateOfBirth   *string `json:"dob,omitempty"`
	JoiningDate   *string `json:"joining_date,omitempty"`
	Address       *string `json:"address,omitempty"`
	PhotoURL      *string `json:"photo_url,omitempty"`
	SickLeave     *int    `json:"sick_leave,omitempty"`
	PersonalLeave *int    `json:"personal_leave,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	errs.Required("id", r.ID)
	if r.BadgeID != nil && !validator.IsValidBadge(*r.BadgeID) {
		errs.Add("rfid_card_no", "rfid_card_no must be 4-32 letters or digits")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if r.Mobile != nil && !validator.IsValidPhoneNumber(*r.Mobile) {
		errs.Add("mobile_no", "mobile_no must contain 7-15 digits")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.DateOfBirth != nil {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs.Add("dob", "dob must be in YYYY-MM-DD format")
		}
	}
	if r.JoiningDate != nil {
		if _, ok := validator.IsValidDate(*r.JoiningDate); !ok {
			errs.Add("joining_date", "joining_date must be in YYYY-MM-DD format")
		}
	}
	if r.SickLeave != nil && *r.SickLeave < 0 {
		errs.Add("sick_leave", "sick_leave must not be negative")
	}
	if r.PersonalLeave != nil && *r.PersonalLeave < 0 {
		errs.Add("personal_leave", "personal_leave must not be negative")
	}

	return errs.Err()
}

// Apply copies the set fields onto e. Call Validate first.
func (r *UpdateEmployeeRequest) Apply(e *Employee) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&e.BadgeID, r.BadgeID)
	set(&e.Name, r.Name)
	set(&e.Email, r.Email)
	set(&e.EmployeeCode, r.EmployeeCode)
	set(&e.Designation, r.Designation)
	set(&e.Department, r.Department)
	set(&e.Mobile, r.Mobile)
	set(&e.Gender, r.Gender)
	set(&e.MaritalStatus, r.MaritalStatus)
	set(&e.Address, r.Address)
	set(&e.PhotoURL, r.PhotoURL)
	if r.DateOfBirth != nil {
		e.DateOfBirth, _ = validator.IsValidDate(*r.DateOfBirth)
	}
	if r.JoiningDate != nil {
		e.JoiningDate, _ = validator.IsValidDate(*r.JoiningDate)
	}
	if r.SickLeave != nil {
		e.SickLeave = *r.SickLeave
	}
	if r.PersonalLeave != nil {
		e.PersonalLeave = *r.PersonalLeave
	}
}

type EmployeeResponse struct {
	ID            string `json:"id"`
	BadgeID       string `json:"rfid_card_no"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmployeeCode  string `json:"employee_code"`
	Designation   string `json:"designation"`
	Department    string `json:"department"`
	Mobile        string `json:"mobile_no"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
	DateOfBirth   string `json:"dob"`
	JoiningDate   string `json:"joining_date"`
	Address       string `json:"address"`
	PhotoURL      string `json:"photo_url,omitempty"`
	SickLeave     int    `json:"sick_leave"`
	PersonalLeave int    `json:"personal_leave"`
	CreatedAt     string `json:"created_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		BadgeID:       e.BadgeID,
		Name:          e.Name,
		Email:         e.Email,
		EmployeeCode:  e.EmployeeCode,
		Designation:   e.Designation,
		Department:    e.Department,
		Mobile:        e.Mobile,
		Gender:        e.Gender,
		MaritalStatus: e.MaritalStatus,
		DateOfBirth:   e.DateOfBirth.Format("2006-01-02"),
		JoiningDate:   e.JoiningDate.Format("2006-01-02"),
		Address:       e.Address,
		PhotoURL:      e.PhotoURL,
		SickLeave:     e.SickLeave,
		PersonalLeave: e.PersonalLeave,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}
