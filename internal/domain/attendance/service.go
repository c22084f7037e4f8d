package attendance

import (
	"context"
	"time"
)

// AttendanceService turns raw punches into derived attendance facts. Every
// operation is idempotent: recomputing from the same inputs yields identical
// output.
type AttendanceService interface {
	// ProcessDay folds one employee's punches for one date into a single
	// DailyAttendance row and persists it.
	ProcessDay(ctx context.Context, employeeID string, date time.Time) (DailyAttendance, error)

	// AggregateMonth rolls processed daily rows up into the MonthlySummary.
	AggregateMonth(ctx context.Context, employeeID string, year, month int) (MonthlySummary, error)

	// RecomputeRange re-runs ProcessDay for each date in [from, to] and
	// refreshes every touched monthly summary.
	RecomputeRange(ctx context.Context, employeeID string, from, to time.Time) error

	// GetPeriodAttendance reads processed daily rows in [from, to] and
	// condenses them into the window the payslip calculator consumes.
	GetPeriodAttendance(ctx context.Context, employeeID string, from, to time.Time) (PeriodAttendance, error)
}
