package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/domain/employee"
	"github.com/hrsuite/payroll-engine-go/internal/repository/memory"
)

const testEmployeeID = "emp-1"

// 2026-07-01 is a Wednesday.
var testDay = time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

type calculatorFixture struct {
	punches    *memory.PunchRepository
	rules      *memory.RuleRepository
	daily      *memory.DailyAttendanceRepository
	summaries  *memory.MonthlySummaryRepository
	exceptions *memory.ExceptionRepository
	calendar   *memory.Calendar
	employees  *memory.EmployeeRepository
	svc        attendance.AttendanceService
}

func newCalculatorFixture() *calculatorFixture {
	f := &calculatorFixture{
		punches:    memory.NewPunchRepository(),
		rules:      memory.NewRuleRepository(),
		daily:      memory.NewDailyAttendanceRepository(),
		summaries:  memory.NewMonthlySummaryRepository(),
		exceptions: memory.NewExceptionRepository(),
		calendar:   memory.NewCalendar(),
		employees:  memory.NewEmployeeRepository(),
	}
	f.svc = NewAttendanceService(
		f.punches, f.rules, f.daily, f.summaries, f.exceptions, f.calendar, f.employees,
		"test-runner",
	)
	f.employees.Add(employee.Employee{
		ID:           testEmployeeID,
		EmployeeCode: "EMP001",
		FullName:     "Test Employee",
		DepartmentID: "dept-1",
		JobTitleID:   "title-1",
		HireDate:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
	})
	return f
}

func clockTime(hour, minute int) *time.Time {
	t := time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
	return &t
}

func officeRule() attendance.Rule {
	return attendance.Rule{
		ID:                         "rule-office",
		Name:                       "Office Hours",
		WorkStartTime:              clockTime(9, 0),
		WorkEndTime:                clockTime(17, 0),
		LateGraceMinutes:           10,
		EarlyDepartureGraceMinutes: 10,
		OvertimeThresholdMinutes:   8 * 60,
		OvertimeMultiplier:         decimal.NewFromFloat(1.5),
		AppliesToAll:               true,
		EffectiveFrom:              time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:                   true,
	}
}

func (f *calculatorFixture) addPunch(id string, at time.Time, typ attendance.PunchType) {
	f.punches.Add(attendance.Punch{
		ID:           id,
		EmployeeID:   testEmployeeID,
		DeviceID:     "device-1",
		PunchTime:    at,
		Type:         typ,
		Verification: attendance.VerifyFingerprint,
		IsValid:      true,
	})
}

func TestProcessDayLateBeyondGrace(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.addPunch("p1", testDay.Add(9*time.Hour+12*time.Minute), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(17*time.Hour+5*time.Minute), attendance.PunchCheckOut)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusLate, da.Status)
	assert.Equal(t, 2, da.LateMinutes)
	assert.Equal(t, 0, da.EarlyDepartureMinutes)
	assert.True(t, da.TotalWorkHours.Equal(decimal.NewFromFloat(7.88)), "got %s", da.TotalWorkHours)
	assert.True(t, da.OvertimeHours.IsZero())
	require.NotNil(t, da.AppliedRuleID)
	assert.Equal(t, "rule-office", *da.AppliedRuleID)
}

func TestProcessDayGraceBoundaryIsNotLate(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.addPunch("p1", testDay.Add(9*time.Hour+10*time.Minute), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(17*time.Hour), attendance.PunchCheckOut)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, da.Status)
	assert.Equal(t, 0, da.LateMinutes)
}

func TestProcessDayOvernightShift(t *testing.T) {
	f := newCalculatorFixture()
	nightRule := officeRule()
	nightRule.ID = "rule-night"
	nightRule.WorkStartTime = clockTime(22, 0)
	nightRule.WorkEndTime = clockTime(6, 0)
	f.rules.Add(nightRule)

	f.addPunch("p1", testDay.Add(22*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(24*time.Hour+6*time.Hour), attendance.PunchCheckOut)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	assert.True(t, da.TotalWorkHours.Equal(decimal.NewFromInt(8)), "got %s", da.TotalWorkHours)
	assert.Equal(t, attendance.StatusPresent, da.Status)
	assert.Equal(t, 0, da.LateMinutes)
}

func TestProcessDayOvernightIgnoresNextDayShift(t *testing.T) {
	f := newCalculatorFixture()
	nightRule := officeRule()
	nightRule.ID = "rule-night"
	nightRule.WorkStartTime = clockTime(22, 0)
	nightRule.WorkEndTime = clockTime(6, 0)
	f.rules.Add(nightRule)

	f.addPunch("p1", testDay.Add(22*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(24*time.Hour+6*time.Hour), attendance.PunchCheckOut)
	// The next day opens its own shift; its check-out must not be pulled back.
	f.addPunch("p3", testDay.Add(24*time.Hour+9*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p4", testDay.Add(24*time.Hour+11*time.Hour), attendance.PunchCheckOut)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	require.NotNil(t, da.CheckOutTime)
	assert.True(t, da.CheckOutTime.Equal(testDay.Add(24*time.Hour+6*time.Hour)))
	assert.True(t, da.TotalWorkHours.Equal(decimal.NewFromInt(8)), "got %s", da.TotalWorkHours)
	assert.Equal(t, attendance.StatusPresent, da.Status)
}

func TestProcessDayCheckInOnlyIsIncomplete(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.addPunch("p1", testDay.Add(9*time.Hour), attendance.PunchCheckIn)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusIncomplete, da.Status)
	assert.True(t, da.TotalWorkHours.IsZero())
}

func TestProcessDayNoPunchesIsAbsent(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusAbsent, da.Status)
}

func TestProcessDayNoMatchingRule(t *testing.T) {
	f := newCalculatorFixture()
	f.addPunch("p1", testDay.Add(9*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(17*time.Hour), attendance.PunchCheckOut)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusIncomplete, da.Status)
	assert.Nil(t, da.AppliedRuleID)
	assert.Contains(t, da.Warnings, warnNoMatchingRule)
	// Hours are still derivable without a rule.
	assert.True(t, da.TotalWorkHours.Equal(decimal.NewFromInt(8)))
}

func TestProcessDayDuplicatePunches(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.addPunch("p1", testDay.Add(9*time.Hour+30*time.Minute), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(9*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p3", testDay.Add(16*time.Hour), attendance.PunchCheckOut)
	f.addPunch("p4", testDay.Add(17*time.Hour), attendance.PunchCheckOut)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	// Earliest check-in and latest check-out win.
	require.NotNil(t, da.CheckInTime)
	require.NotNil(t, da.CheckOutTime)
	assert.Equal(t, testDay.Add(9*time.Hour), *da.CheckInTime)
	assert.Equal(t, testDay.Add(17*time.Hour), *da.CheckOutTime)
	assert.Contains(t, da.Warnings, warnDuplicatePunch)
	assert.Equal(t, attendance.StatusPresent, da.Status)
}

func TestProcessDayInvalidPunchesIgnored(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.punches.Add(attendance.Punch{
		ID:         "bad",
		EmployeeID: testEmployeeID,
		PunchTime:  testDay.Add(6 * time.Hour),
		Type:       attendance.PunchCheckIn,
		IsValid:    false,
	})
	f.addPunch("p1", testDay.Add(9*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(17*time.Hour), attendance.PunchCheckOut)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	require.NotNil(t, da.CheckInTime)
	assert.Equal(t, testDay.Add(9*time.Hour), *da.CheckInTime)
}

func TestProcessDayBreakDeduction(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.addPunch("p1", testDay.Add(9*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(12*time.Hour), attendance.PunchBreakOut)
	f.addPunch("p3", testDay.Add(13*time.Hour), attendance.PunchBreakIn)
	f.addPunch("p4", testDay.Add(17*time.Hour), attendance.PunchCheckOut)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	assert.Equal(t, 60, da.BreakMinutes)
	assert.True(t, da.TotalWorkHours.Equal(decimal.NewFromInt(8)))
	assert.True(t, da.EffectiveWorkHours.Equal(decimal.NewFromInt(7)))
}

func TestProcessDayOvertimeBeyondThreshold(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.addPunch("p1", testDay.Add(9*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(19*time.Hour), attendance.PunchCheckOut)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	assert.True(t, da.OvertimeHours.Equal(decimal.NewFromInt(2)), "got %s", da.OvertimeHours)
	require.NotNil(t, da.OvertimeMultiplier)
	assert.True(t, da.OvertimeMultiplier.Equal(decimal.NewFromFloat(1.5)))
}

func TestProcessDayHolidayOverride(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.calendar.AddHoliday(testDay)
	f.addPunch("p1", testDay.Add(9*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(17*time.Hour), attendance.PunchCheckOut)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusHoliday, da.Status)
	// Worked hours survive the override.
	assert.True(t, da.TotalWorkHours.Equal(decimal.NewFromInt(8)))
}

func TestProcessDayLeaveOverride(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.calendar.AddLeave(testEmployeeID, testDay)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusLeave, da.Status)
}

func TestProcessDayWeekendOverride(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	saturday := time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC)

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, saturday)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusWeekend, da.Status)
}

func TestProcessDayExceptionAdjustsTimes(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.addPunch("p1", testDay.Add(11*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(17*time.Hour), attendance.PunchCheckOut)

	adjustedIn := testDay.Add(9 * time.Hour)
	f.exceptions.Add(attendance.Exception{
		ID:              "exc-1",
		EmployeeID:      testEmployeeID,
		Date:            testDay,
		Type:            attendance.ExceptionDeviceMalfunction,
		AdjustedCheckIn: &adjustedIn,
		IsApproved:      true,
	})

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	require.NotNil(t, da.CheckInTime)
	assert.Equal(t, adjustedIn, *da.CheckInTime)
	assert.Equal(t, attendance.StatusPresent, da.Status)
	assert.Equal(t, 0, da.LateMinutes)
	assert.Contains(t, da.Warnings, warnAdjustedByException)
}

func TestProcessDayUnapprovedExceptionIgnored(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.addPunch("p1", testDay.Add(11*time.Hour), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(17*time.Hour), attendance.PunchCheckOut)

	adjustedIn := testDay.Add(9 * time.Hour)
	f.exceptions.Add(attendance.Exception{
		ID:              "exc-1",
		EmployeeID:      testEmployeeID,
		Date:            testDay,
		AdjustedCheckIn: &adjustedIn,
		IsApproved:      false,
	})

	da, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	require.NotNil(t, da.CheckInTime)
	assert.Equal(t, testDay.Add(11*time.Hour), *da.CheckInTime)
	assert.Equal(t, attendance.StatusLate, da.Status)
}

func TestProcessDayIsIdempotent(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())
	f.addPunch("p1", testDay.Add(9*time.Hour+30*time.Minute), attendance.PunchCheckIn)
	f.addPunch("p2", testDay.Add(17*time.Hour), attendance.PunchCheckOut)

	first, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)
	second, err := f.svc.ProcessDay(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)

	first.ProcessedAt = nil
	second.ProcessedAt = nil
	assert.Equal(t, first, second)

	// Exactly one row exists for the day.
	stored, err := f.daily.GetDailyAttendance(context.Background(), testEmployeeID, testDay)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
}

func TestProcessDayUnknownEmployee(t *testing.T) {
	f := newCalculatorFixture()
	f.rules.Add(officeRule())

	_, err := f.svc.ProcessDay(context.Background(), "missing", testDay)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
