package attendance

import "context"

type AttendanceService interface {
	// Scan records an RFID tap: check-in on the first tap of the day, check-out on the second.
	Scan(ctx context.Context, req ScanRequest) (ScanResponse, error)
	Today(ctx context.Context) ([]AttendanceResponse, error)
	ListRange(ctx context.Context, req ListRequest) ([]AttendanceResponse, error)
	// OpenCheckouts lists today's records that have a check-in but no check-out.
	OpenCheckouts(ctx context.Context) ([]AttendanceResponse, error)
}
