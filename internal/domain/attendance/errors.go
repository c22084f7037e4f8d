package attendance

import "errors"

var (
	ErrNoMatchingRule          = errors.New("no attendance rule matches employee and date")
	ErrDailyAttendanceNotFound = errors.New("daily attendance not found")
	ErrMonthlySummaryNotFound  = errors.New("monthly summary not found")
	ErrInvalidMonth            = errors.New("month must be between 1 and 12")
	ErrSummaryFinalized        = errors.New("monthly summary is finalized, cannot recompute")
)
