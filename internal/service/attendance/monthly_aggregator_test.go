package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/repository/memory"
)

func seedDay(t *testing.T, repo *memory.DailyAttendanceRepository, day int, status attendance.Status, workHours, overtimeHours float64, lateMinutes int) {
	t.Helper()
	date := time.Date(2026, time.July, day, 0, 0, 0, 0, time.UTC)
	err := repo.SaveDailyAttendance(context.Background(), attendance.DailyAttendance{
		ID:             "da-" + date.Format("20060102"),
		EmployeeID:     testEmployeeID,
		Date:           date,
		Status:         status,
		TotalWorkHours: decimal.NewFromFloat(workHours),
		OvertimeHours:  decimal.NewFromFloat(overtimeHours),
		LateMinutes:    lateMinutes,
		IsProcessed:    true,
	})
	require.NoError(t, err)
}

func TestAggregateMonthCounts(t *testing.T) {
	daily := memory.NewDailyAttendanceRepository()
	summaries := memory.NewMonthlySummaryRepository()
	agg := NewMonthlyAggregator(daily, summaries)

	seedDay(t, daily, 1, attendance.StatusPresent, 8, 0, 0)
	seedDay(t, daily, 2, attendance.StatusLate, 7.5, 0, 20)
	seedDay(t, daily, 3, attendance.StatusEarlyDeparture, 7, 0, 0)
	seedDay(t, daily, 4, attendance.StatusWeekend, 0, 0, 0)
	seedDay(t, daily, 5, attendance.StatusWeekend, 0, 0, 0)
	seedDay(t, daily, 6, attendance.StatusAbsent, 0, 0, 0)
	seedDay(t, daily, 7, attendance.StatusLeave, 0, 0, 0)
	seedDay(t, daily, 8, attendance.StatusHoliday, 0, 0, 0)
	seedDay(t, daily, 9, attendance.StatusPresent, 10, 2, 0)

	s, err := agg.AggregateMonth(context.Background(), testEmployeeID, 2026, 7)
	require.NoError(t, err)

	// Working days exclude weekend, holiday and leave.
	assert.Equal(t, 5, s.TotalWorkingDays)
	assert.Equal(t, 4, s.PresentDays)
	assert.Equal(t, 1, s.AbsentDays)
	assert.Equal(t, 1, s.LateDays)
	assert.Equal(t, 1, s.EarlyDepartureDays)
	assert.Equal(t, 1, s.LeaveDays)
	assert.Equal(t, 1, s.HolidayDays)
	assert.Equal(t, 2, s.WeekendDays)
	assert.Equal(t, 20, s.TotalLateMinutes)
	assert.True(t, s.TotalWorkHours.Equal(decimal.NewFromFloat(32.5)), "got %s", s.TotalWorkHours)
	assert.True(t, s.TotalOvertimeHours.Equal(decimal.NewFromInt(2)))

	// 4 of 5 working days attended, 3 of 4 attended days punctual.
	assert.True(t, s.AttendancePercentage.Equal(decimal.NewFromInt(80)), "got %s", s.AttendancePercentage)
	assert.True(t, s.PunctualityPercentage.Equal(decimal.NewFromInt(75)), "got %s", s.PunctualityPercentage)
}

func TestAggregateMonthSkipsUnprocessedDays(t *testing.T) {
	daily := memory.NewDailyAttendanceRepository()
	summaries := memory.NewMonthlySummaryRepository()
	agg := NewMonthlyAggregator(daily, summaries)

	seedDay(t, daily, 1, attendance.StatusPresent, 8, 0, 0)
	err := daily.SaveDailyAttendance(context.Background(), attendance.DailyAttendance{
		ID:          "da-unprocessed",
		EmployeeID:  testEmployeeID,
		Date:        time.Date(2026, time.July, 2, 0, 0, 0, 0, time.UTC),
		Status:      attendance.StatusPresent,
		IsProcessed: false,
	})
	require.NoError(t, err)

	s, err := agg.AggregateMonth(context.Background(), testEmployeeID, 2026, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalWorkingDays)
	assert.Equal(t, 1, s.PresentDays)
}

func TestAggregateMonthEmptyMonthHasZeroPercentages(t *testing.T) {
	agg := NewMonthlyAggregator(memory.NewDailyAttendanceRepository(), memory.NewMonthlySummaryRepository())

	s, err := agg.AggregateMonth(context.Background(), testEmployeeID, 2026, 7)
	require.NoError(t, err)

	assert.Equal(t, 0, s.TotalWorkingDays)
	assert.True(t, s.AttendancePercentage.IsZero())
	assert.True(t, s.PunctualityPercentage.IsZero())
}

func TestAggregateMonthInvalidMonth(t *testing.T) {
	agg := NewMonthlyAggregator(memory.NewDailyAttendanceRepository(), memory.NewMonthlySummaryRepository())

	_, err := agg.AggregateMonth(context.Background(), testEmployeeID, 2026, 13)
	assert.ErrorIs(t, err, attendance.ErrInvalidMonth)

	_, err = agg.AggregateMonth(context.Background(), testEmployeeID, 2026, 0)
	assert.ErrorIs(t, err, attendance.ErrInvalidMonth)
}

func TestAggregateMonthIsIdempotent(t *testing.T) {
	daily := memory.NewDailyAttendanceRepository()
	summaries := memory.NewMonthlySummaryRepository()
	agg := NewMonthlyAggregator(daily, summaries)

	seedDay(t, daily, 1, attendance.StatusPresent, 8, 0, 0)

	first, err := agg.AggregateMonth(context.Background(), testEmployeeID, 2026, 7)
	require.NoError(t, err)
	second, err := agg.AggregateMonth(context.Background(), testEmployeeID, 2026, 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	stored, err := summaries.GetMonthlySummary(context.Background(), testEmployeeID, 2026, 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
}
