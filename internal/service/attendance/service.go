package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/domain/employee"
	"github.com/hrsuite/payroll-engine-go/internal/pkg/money"
)

type AttendanceServiceImpl struct {
	calculator *DailyCalculator
	aggregator *MonthlyAggregator
	daily      attendance.DailyAttendanceRepository
}

func NewAttendanceService(
	punches attendance.PunchRepository,
	rules attendance.RuleRepository,
	daily attendance.DailyAttendanceRepository,
	summaries attendance.MonthlySummaryRepository,
	exceptions attendance.ExceptionRepository,
	calendar attendance.Calendar,
	employees employee.EmployeeRepository,
	actor string,
) attendance.AttendanceService {
	resolver := NewRuleResolver(rules)
	return &AttendanceServiceImpl{
		calculator: NewDailyCalculator(punches, daily, exceptions, calendar, resolver, employees, actor),
		aggregator: NewMonthlyAggregator(daily, summaries),
		daily:      daily,
	}
}

// ProcessDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ProcessDay(ctx context.Context, employeeID string, date time.Time) (attendance.DailyAttendance, error) {
	return s.calculator.ProcessDay(ctx, employeeID, date)
}

// AggregateMonth implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AggregateMonth(ctx context.Context, employeeID string, year, month int) (attendance.MonthlySummary, error) {
	return s.aggregator.AggregateMonth(ctx, employeeID, year, month)
}

// RecomputeRange implements attendance.AttendanceService. Days are processed
// in order and every touched (year, month) summary is refreshed once at the
// end.
func (s *AttendanceServiceImpl) RecomputeRange(ctx context.Context, employeeID string, from, to time.Time) error {
	type yearMonth struct {
		year  int
		month int
	}
	touched := make(map[yearMonth]struct{})

	for day := truncateToDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.calculator.ProcessDay(ctx, employeeID, day); err != nil {
			return fmt.Errorf("failed to process %s: %w", day.Format("2006-01-02"), err)
		}
		touched[yearMonth{day.Year(), int(day.Month())}] = struct{}{}
	}

	for ym := range touched {
		if _, err := s.aggregator.AggregateMonth(ctx, employeeID, ym.year, ym.month); err != nil {
			return fmt.Errorf("failed to aggregate %04d-%02d: %w", ym.year, ym.month, err)
		}
	}
	return nil
}

// GetPeriodAttendance implements attendance.AttendanceService. Working days
// exclude holidays and weekends; leave days remain part of the working count
// so pro-ration treats leave as scheduled time.
func (s *AttendanceServiceImpl) GetPeriodAttendance(ctx context.Context, employeeID string, from, to time.Time) (attendance.PeriodAttendance, error) {
	days, err := s.daily.ListForRange(ctx, employeeID, from, to)
	if err != nil {
		return attendance.PeriodAttendance{}, fmt.Errorf("failed to list daily attendance: %w", err)
	}

	pa := attendance.PeriodAttendance{
		EmployeeID:    employeeID,
		OvertimeHours: decimal.Zero,
	}
	for _, d := range days {
		if !d.IsProcessed {
			continue
		}
		switch d.Status {
		case attendance.StatusHoliday, attendance.StatusWeekend:
			continue
		case attendance.StatusAbsent:
			pa.AbsentDays++
		case attendance.StatusLeave:
			pa.LeaveDays++
		}
		pa.WorkingDays++
		if d.Status.IsPresentStatus() {
			pa.PresentDays++
		}
		pa.OvertimeHours = pa.OvertimeHours.Add(d.OvertimeHours)
		if d.OvertimeHours.IsPositive() && d.OvertimeMultiplier != nil {
			pa.OvertimeMultiplier = *d.OvertimeMultiplier
		}
	}
	pa.OvertimeHours = money.Round(pa.OvertimeHours)
	return pa, nil
}
