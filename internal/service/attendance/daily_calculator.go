package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/domain/employee"
	"github.com/hrsuite/payroll-engine-go/internal/pkg/money"
)

const (
	warnNoMatchingRule      = "no matching attendance rule"
	warnDuplicatePunch      = "duplicate punches for the same punch type"
	warnAdjustedByException = "times adjusted by approved exception"
)

// dayTimes is the fold of one day's punches into the four boundary times.
type dayTimes struct {
	checkIn  *time.Time
	checkOut *time.Time
	breakOut *time.Time
	breakIn  *time.Time

	duplicateCheckIns  bool
	duplicateCheckOuts bool
}

// DailyCalculator folds one employee's punches for one date into a single
// DailyAttendance fact using the resolved rule. Recomputation is idempotent:
// the row is keyed deterministically by (employee, date) and overwritten.
type DailyCalculator struct {
	punches    attendance.PunchRepository
	daily      attendance.DailyAttendanceRepository
	exceptions attendance.ExceptionRepository
	calendar   attendance.Calendar
	resolver   *RuleResolver
	employees  employee.EmployeeRepository
	actor      string
}

func NewDailyCalculator(
	punches attendance.PunchRepository,
	daily attendance.DailyAttendanceRepository,
	exceptions attendance.ExceptionRepository,
	calendar attendance.Calendar,
	resolver *RuleResolver,
	employees employee.EmployeeRepository,
	actor string,
) *DailyCalculator {
	return &DailyCalculator{
		punches:    punches,
		daily:      daily,
		exceptions: exceptions,
		calendar:   calendar,
		resolver:   resolver,
		employees:  employees,
		actor:      actor,
	}
}

// ProcessDay computes and persists the DailyAttendance row for (employeeID,
// date). A missing rule marks the day incomplete instead of failing.
func (c *DailyCalculator) ProcessDay(ctx context.Context, employeeID string, date time.Time) (attendance.DailyAttendance, error) {
	emp, err := c.employees.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.DailyAttendance{}, fmt.Errorf("failed to get employee: %w", err)
	}

	day := truncateToDay(date)
	da := attendance.DailyAttendance{
		ID:                 dailyAttendanceID(employeeID, day),
		EmployeeID:         employeeID,
		Date:               day,
		TotalWorkHours:     decimal.Zero,
		EffectiveWorkHours: decimal.Zero,
		OvertimeHours:      decimal.Zero,
	}

	// Fetch half a day past midnight so an overnight shift's early-morning
	// check-out is visible to the date the shift started on.
	punches, err := c.punches.GetPunches(ctx, employeeID, day, day.Add(36*time.Hour))
	if err != nil {
		return attendance.DailyAttendance{}, fmt.Errorf("failed to get punches: %w", err)
	}

	nextDay := day.Add(24 * time.Hour)
	var sameDay, nextMorning []attendance.Punch
	for _, p := range punches {
		if p.PunchTime.Before(nextDay) {
			sameDay = append(sameDay, p)
		} else {
			nextMorning = append(nextMorning, p)
		}
	}

	times := foldPunches(sameDay)
	if times.checkIn != nil && times.checkOut == nil {
		attachOvernightCheckOut(&times, nextMorning)
	}
	if times.duplicateCheckIns || times.duplicateCheckOuts {
		da.Warnings = append(da.Warnings, warnDuplicatePunch)
	}

	var adjustedHours *decimal.Decimal
	excs, err := c.exceptions.GetApprovedExceptions(ctx, employeeID, day)
	if err != nil {
		return attendance.DailyAttendance{}, fmt.Errorf("failed to get exceptions: %w", err)
	}
	for _, exc := range excs {
		if exc.AdjustedCheckIn != nil {
			times.checkIn = exc.AdjustedCheckIn
		}
		if exc.AdjustedCheckOut != nil {
			times.checkOut = exc.AdjustedCheckOut
		}
		if exc.AdjustedWorkHours != nil {
			adjustedHours = exc.AdjustedWorkHours
		}
		da.Warnings = append(da.Warnings, warnAdjustedByException)
	}

	da.CheckInTime = times.checkIn
	da.CheckOutTime = times.checkOut
	da.BreakOutTime = times.breakOut
	da.BreakInTime = times.breakIn

	var rule *attendance.Rule
	resolved, err := c.resolver.Resolve(ctx, emp, day)
	switch {
	case err == nil:
		rule = &resolved
		da.AppliedRuleID = &resolved.ID
	case errors.Is(err, attendance.ErrNoMatchingRule):
		da.Warnings = append(da.Warnings, warnNoMatchingRule)
	default:
		return attendance.DailyAttendance{}, err
	}

	c.calculateDurations(&da, times, rule, adjustedHours)

	if err := c.deriveStatus(ctx, &da, times, rule); err != nil {
		return attendance.DailyAttendance{}, err
	}

	now := time.Now().UTC()
	da.IsProcessed = true
	da.ProcessedAt = &now
	da.ProcessedBy = c.actor

	if err := c.daily.SaveDailyAttendance(ctx, da); err != nil {
		return attendance.DailyAttendance{}, fmt.Errorf("failed to save daily attendance: %w", err)
	}
	return da, nil
}

// calculateDurations fills the work/break/overtime/late fields. Rule-dependent
// metrics are computed only when a rule resolved.
func (c *DailyCalculator) calculateDurations(da *attendance.DailyAttendance, times dayTimes, rule *attendance.Rule, adjustedHours *decimal.Decimal) {
	if times.checkIn == nil || times.checkOut == nil {
		if adjustedHours != nil {
			da.TotalWorkHours = money.Round(*adjustedHours)
			da.EffectiveWorkHours = da.TotalWorkHours
		}
		return
	}

	checkIn := combine(da.Date, *times.checkIn)
	checkOut := combine(da.Date, *times.checkOut)
	// Overnight shift: a check-out clock-time before the check-in clock-time
	// belongs to the next calendar day.
	if checkOut.Before(checkIn) {
		checkOut = checkOut.Add(24 * time.Hour)
	}
	totalMinutes := int(checkOut.Sub(checkIn).Minutes())

	breakMinutes := 0
	if times.breakOut != nil && times.breakIn != nil {
		breakOut := combine(da.Date, *times.breakOut)
		breakIn := combine(da.Date, *times.breakIn)
		if breakIn.After(breakOut) {
			breakMinutes = int(breakIn.Sub(breakOut).Minutes())
		}
	}
	da.BreakMinutes = breakMinutes

	netMinutes := totalMinutes - breakMinutes
	if netMinutes < 0 {
		netMinutes = 0
	}

	da.TotalWorkHours = money.MinutesToHours(totalMinutes)
	da.EffectiveWorkHours = money.MinutesToHours(netMinutes)
	if adjustedHours != nil {
		da.TotalWorkHours = money.Round(*adjustedHours)
		da.EffectiveWorkHours = da.TotalWorkHours
	}

	if rule == nil {
		return
	}

	if rule.WorkStartTime != nil {
		expectedStart := combine(da.Date, *rule.WorkStartTime)
		if checkIn.After(expectedStart) {
			lateMinutes := int(checkIn.Sub(expectedStart).Minutes()) - rule.LateGraceMinutes
			if lateMinutes > 0 {
				da.LateMinutes = lateMinutes
			}
		}
	}

	if rule.WorkEndTime != nil {
		expectedEnd := combine(da.Date, *rule.WorkEndTime)
		if checkOut.Before(expectedEnd) {
			earlyMinutes := int(expectedEnd.Sub(checkOut).Minutes()) - rule.EarlyDepartureGraceMinutes
			if earlyMinutes > 0 {
				da.EarlyDepartureMinutes = earlyMinutes
			}
		}
	}

	if rule.OvertimeThresholdMinutes > 0 && netMinutes > rule.OvertimeThresholdMinutes {
		da.OvertimeHours = money.MinutesToHours(netMinutes - rule.OvertimeThresholdMinutes)
		if rule.OvertimeMultiplier.IsPositive() {
			m := rule.OvertimeMultiplier
			da.OvertimeMultiplier = &m
		}
	}
}

// deriveStatus applies calendar overrides first, then the punch-derived
// priority order.
func (c *DailyCalculator) deriveStatus(ctx context.Context, da *attendance.DailyAttendance, times dayTimes, rule *attendance.Rule) error {
	holiday, err := c.calendar.IsHoliday(ctx, da.Date)
	if err != nil {
		return fmt.Errorf("failed to check holiday calendar: %w", err)
	}
	if holiday {
		da.Status = attendance.StatusHoliday
		return nil
	}

	onLeave, err := c.calendar.IsOnLeave(ctx, da.EmployeeID, da.Date)
	if err != nil {
		return fmt.Errorf("failed to check leave calendar: %w", err)
	}
	if onLeave {
		da.Status = attendance.StatusLeave
		return nil
	}

	weekend, err := c.calendar.IsWeekend(ctx, da.Date)
	if err != nil {
		return fmt.Errorf("failed to check weekend calendar: %w", err)
	}
	if weekend {
		da.Status = attendance.StatusWeekend
		return nil
	}

	if rule == nil {
		da.Status = attendance.StatusIncomplete
		return nil
	}

	switch {
	case da.LateMinutes > 0:
		da.Status = attendance.StatusLate
	case da.EarlyDepartureMinutes > 0:
		da.Status = attendance.StatusEarlyDeparture
	case times.checkIn != nil && times.checkOut != nil:
		da.Status = attendance.StatusPresent
	case times.checkIn != nil:
		da.Status = attendance.StatusIncomplete
	default:
		da.Status = attendance.StatusAbsent
	}
	return nil
}

// foldPunches reduces a day's raw punches to boundary times. Invalid punches
// are ignored; disorder and duplicates are tolerated: earliest check-in and
// latest check-out win, earliest break-out and latest break-in bound the
// break.
func foldPunches(punches []attendance.Punch) dayTimes {
	var times dayTimes
	for i := range punches {
		p := punches[i]
		if !p.IsValid {
			continue
		}
		t := p.PunchTime
		switch p.Type {
		case attendance.PunchCheckIn:
			if times.checkIn == nil {
				times.checkIn = &t
			} else if !sameInstant(*times.checkIn, t) {
				times.duplicateCheckIns = true
				if t.Before(*times.checkIn) {
					times.checkIn = &t
				}
			}
		case attendance.PunchCheckOut:
			if times.checkOut == nil {
				times.checkOut = &t
			} else if !sameInstant(*times.checkOut, t) {
				times.duplicateCheckOuts = true
				if t.After(*times.checkOut) {
					times.checkOut = &t
				}
			}
		case attendance.PunchBreakOut:
			if times.breakOut == nil || t.Before(*times.breakOut) {
				times.breakOut = &t
			}
		case attendance.PunchBreakIn:
			if times.breakIn == nil || t.After(*times.breakIn) {
				times.breakIn = &t
			}
		}
	}
	return times
}

// attachOvernightCheckOut assigns an early-morning check-out on the next
// calendar day to the shift that started the evening before. A check-out at
// or after the next day's first check-in opens that day's own shift and is
// left to it.
func attachOvernightCheckOut(times *dayTimes, nextMorning []attendance.Punch) {
	var firstCheckIn *time.Time
	for i := range nextMorning {
		p := nextMorning[i]
		if !p.IsValid || p.Type != attendance.PunchCheckIn {
			continue
		}
		t := p.PunchTime
		if firstCheckIn == nil || t.Before(*firstCheckIn) {
			firstCheckIn = &t
		}
	}
	for i := range nextMorning {
		p := nextMorning[i]
		if !p.IsValid || p.Type != attendance.PunchCheckOut {
			continue
		}
		if firstCheckIn != nil && !p.PunchTime.Before(*firstCheckIn) {
			continue
		}
		t := p.PunchTime
		if times.checkOut == nil || t.After(*times.checkOut) {
			times.checkOut = &t
		}
	}
}

func sameInstant(a, b time.Time) bool { return a.Equal(b) }

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// combine places a clock time onto a calendar date.
func combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, date.Location())
}

// dailyAttendanceID derives a stable row ID from the natural key so
// recomputation overwrites rather than duplicates.
func dailyAttendanceID(employeeID string, date time.Time) string {
	name := "daily:" + employeeID + ":" + date.Format("2006-01-02")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
