package attendance

import (
	"context"
	"time"
)

// PunchRepository is the source of raw device punches. Results may contain
// duplicates and are not guaranteed to be time-ordered; callers must tolerate
// both.
type PunchRepository interface {
	GetPunches(ctx context.Context, employeeID string, from, to time.Time) ([]Punch, error)
}

// RuleRepository provides the mostly-static rule configuration. Reads are safe
// for concurrent use and should be cached per batch run.
type RuleRepository interface {
	GetActiveRules(ctx context.Context, date time.Time) ([]Rule, error)
}

// DailyAttendanceRepository persists derived daily facts. SaveDailyAttendance
// creates or overwrites the single row keyed by (employee, date).
type DailyAttendanceRepository interface {
	SaveDailyAttendance(ctx context.Context, da DailyAttendance) error
	GetDailyAttendance(ctx context.Context, employeeID string, date time.Time) (DailyAttendance, error)
	ListForMonth(ctx context.Context, employeeID string, year, month int) ([]DailyAttendance, error)
	ListForRange(ctx context.Context, employeeID string, from, to time.Time) ([]DailyAttendance, error)
}

// MonthlySummaryRepository persists derived monthly roll-ups, keyed by
// (employee, year, month).
type MonthlySummaryRepository interface {
	SaveMonthlySummary(ctx context.Context, s MonthlySummary) error
	GetMonthlySummary(ctx context.Context, employeeID string, year, month int) (MonthlySummary, error)
}

// ExceptionRepository provides approved manual adjustments for a date.
type ExceptionRepository interface {
	GetApprovedExceptions(ctx context.Context, employeeID string, date time.Time) ([]Exception, error)
}

// Calendar is the external system of record for holidays, weekends and leave.
// Its answers take precedence over punch-derived statuses.
type Calendar interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	IsWeekend(ctx context.Context, date time.Time) (bool, error)
	IsOnLeave(ctx context.Context, employeeID string, date time.Time) (bool, error)
}
