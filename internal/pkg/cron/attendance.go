package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/domain/employee"
)

// AttendanceJobs holds the background recomputation work: processing
// yesterday's punches for every active employee and refreshing the monthly
// roll-ups. Both jobs are idempotent, so overlapping runs only waste work.
type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	employeeRepo  employee.EmployeeRepository

	dailyInterval   time.Duration
	summaryInterval time.Duration
}

func NewAttendanceJobs(
	attendanceSvc attendance.AttendanceService,
	employeeRepo employee.EmployeeRepository,
	dailyInterval, summaryInterval time.Duration,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc:   attendanceSvc,
		employeeRepo:    employeeRepo,
		dailyInterval:   dailyInterval,
		summaryInterval: summaryInterval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("recompute_daily_attendance", j.dailyInterval, j.RecomputeYesterday)
	scheduler.AddJob("refresh_monthly_summaries", j.summaryInterval, j.RefreshCurrentMonth)
}

// RecomputeYesterday reprocesses yesterday's punches for every employee
// active over that day, picking up late-arriving device syncs.
func (j *AttendanceJobs) RecomputeYesterday(ctx context.Context) error {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	day := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)

	employees, err := j.employeeRepo.GetEligibleForPeriod(ctx, day, day)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	var failed int
	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := j.attendanceSvc.ProcessDay(ctx, emp.ID, day); err != nil {
			failed++
			slog.Warn("daily recompute failed", "employee_id", emp.ID, "date", day.Format("2006-01-02"), "error", err)
		}
	}

	slog.Info("daily attendance recomputed", "date", day.Format("2006-01-02"), "employees", len(employees), "failed", failed)
	return nil
}

// RefreshCurrentMonth rebuilds the current month's summary for every active
// employee so dashboards track processed days without waiting for month end.
func (j *AttendanceJobs) RefreshCurrentMonth(ctx context.Context) error {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	employees, err := j.employeeRepo.GetEligibleForPeriod(ctx, monthStart, monthEnd)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	var failed int
	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := j.attendanceSvc.AggregateMonth(ctx, emp.ID, now.Year(), int(now.Month())); err != nil {
			failed++
			slog.Warn("summary refresh failed", "employee_id", emp.ID, "error", err)
		}
	}

	slog.Info("monthly summaries refreshed", "year", now.Year(), "month", int(now.Month()), "employees", len(employees), "failed", failed)
	return nil
}
