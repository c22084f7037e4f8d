package attendance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/pkg/money"
)

// MonthlyAggregator rolls a month of processed daily rows up into one
// MonthlySummary. The roll-up is purely additive, so it can be re-run at any
// time as daily data changes.
type MonthlyAggregator struct {
	daily     attendance.DailyAttendanceRepository
	summaries attendance.MonthlySummaryRepository
}

func NewMonthlyAggregator(
	daily attendance.DailyAttendanceRepository,
	summaries attendance.MonthlySummaryRepository,
) *MonthlyAggregator {
	return &MonthlyAggregator{daily: daily, summaries: summaries}
}

// AggregateMonth recomputes and persists the summary for (employeeID, year,
// month). Only processed daily rows contribute.
func (a *MonthlyAggregator) AggregateMonth(ctx context.Context, employeeID string, year, month int) (attendance.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return attendance.MonthlySummary{}, attendance.ErrInvalidMonth
	}

	days, err := a.daily.ListForMonth(ctx, employeeID, year, month)
	if err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to list daily attendance: %w", err)
	}

	s := attendance.MonthlySummary{
		ID:                 monthlySummaryID(employeeID, year, month),
		EmployeeID:         employeeID,
		Year:               year,
		Month:              month,
		TotalWorkHours:     decimal.Zero,
		TotalOvertimeHours: decimal.Zero,
	}

	for _, d := range days {
		if !d.IsProcessed {
			continue
		}

		if d.Status.IsWorkingStatus() {
			s.TotalWorkingDays++
		}
		if d.Status.IsPresentStatus() {
			s.PresentDays++
		}

		switch d.Status {
		case attendance.StatusAbsent:
			s.AbsentDays++
		case attendance.StatusLate:
			s.LateDays++
		case attendance.StatusEarlyDeparture:
			s.EarlyDepartureDays++
		case attendance.StatusLeave:
			s.LeaveDays++
		case attendance.StatusHoliday:
			s.HolidayDays++
		case attendance.StatusWeekend:
			s.WeekendDays++
		}

		s.TotalWorkHours = s.TotalWorkHours.Add(d.TotalWorkHours)
		s.TotalOvertimeHours = s.TotalOvertimeHours.Add(d.OvertimeHours)
		s.TotalLateMinutes += d.LateMinutes
		s.TotalEarlyDepartureMinutes += d.EarlyDepartureMinutes
	}

	s.TotalWorkHours = money.Round(s.TotalWorkHours)
	s.TotalOvertimeHours = money.Round(s.TotalOvertimeHours)
	s.AttendancePercentage = money.Ratio(
		decimal.NewFromInt(int64(s.PresentDays)),
		decimal.NewFromInt(int64(s.TotalWorkingDays)),
	)
	s.PunctualityPercentage = money.Ratio(
		decimal.NewFromInt(int64(s.PresentDays-s.LateDays)),
		decimal.NewFromInt(int64(s.PresentDays)),
	)

	if err := a.summaries.SaveMonthlySummary(ctx, s); err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to save monthly summary: %w", err)
	}
	return s, nil
}

func monthlySummaryID(employeeID string, year, month int) string {
	name := fmt.Sprintf("summary:%s:%04d-%02d", employeeID, year, month)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
