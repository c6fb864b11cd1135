package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedOut  = errors.New("already checked out for today")
	ErrOnApprovedLeave    = errors.New("employee is on approved leave today")
	ErrAttendanceExists   = errors.New("attendance already recorded for this day")
)
