package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// PunchType enum
type PunchType string

const (
	PunchCheckIn     PunchType = "check_in"
	PunchCheckOut    PunchType = "check_out"
	PunchBreakOut    PunchType = "break_out"
	PunchBreakIn     PunchType = "break_in"
	PunchOvertimeIn  PunchType = "overtime_in"
	PunchOvertimeOut PunchType = "overtime_out"
)

// VerificationMethod enum
type VerificationMethod string

const (
	VerifyFingerprint VerificationMethod = "fingerprint"
	VerifyFace        VerificationMethod = "face"
	VerifyCard        VerificationMethod = "card"
	VerifyPassword    VerificationMethod = "password"
	VerifyManual      VerificationMethod = "manual"
)

// Punch is a single raw attendance event from a device. Punches are immutable
// inputs produced by an external device-sync collaborator; the engine never
// writes them. They are not guaranteed to arrive deduplicated or time-ordered.
type Punch struct {
	ID           string
	EmployeeID   string
	DeviceID     string
	PunchTime    time.Time
	Type         PunchType
	Verification VerificationMethod
	IsValid      bool
	CreatedAt    time.Time
}

// Rule is an attendance policy: work window, grace periods, overtime
// configuration and who it applies to. Several rules may be active at once;
// the resolver picks exactly one per employee/date.
type Rule struct {
	ID   string
	Name string

	WorkStartTime  *time.Time
	WorkEndTime    *time.Time
	BreakStartTime *time.Time
	BreakEndTime   *time.Time

	LateGraceMinutes           int
	EarlyDepartureGraceMinutes int

	OvertimeThresholdMinutes int
	OvertimeMultiplier       decimal.Decimal

	AppliesToAll  bool
	DepartmentIDs []string
	JobTitleIDs   []string

	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	IsActive      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveOn reports whether the rule's effective range covers date.
func (r Rule) EffectiveOn(date time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.EffectiveFrom.After(date) {
		return false
	}
	if r.EffectiveTo != nil && r.EffectiveTo.Before(date) {
		return false
	}
	return true
}

// MatchesEmployee reports whether a non-general rule targets the employee's
// department or job title.
func (r Rule) MatchesEmployee(departmentID, jobTitleID string) bool {
	for _, id := range r.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	for _, id := range r.JobTitleIDs {
		if id == jobTitleID {
			return true
		}
	}
	return false
}

// Status enum for a processed day
type Status string

const (
	StatusPresent        Status = "present"
	StatusAbsent         Status = "absent"
	StatusLate           Status = "late"
	StatusEarlyDeparture Status = "early_departure"
	StatusIncomplete     Status = "incomplete"
	StatusHoliday        Status = "holiday"
	StatusLeave          Status = "leave"
	StatusWeekend        Status = "weekend"
)

// IsWorkingStatus reports whether the status counts toward working days.
func (s Status) IsWorkingStatus() bool {
	switch s {
	case StatusHoliday, StatusWeekend, StatusLeave:
		return false
	}
	return true
}

// IsPresentStatus reports whether the status counts as attended.
func (s Status) IsPresentStatus() bool {
	switch s {
	case StatusPresent, StatusLate, StatusEarlyDeparture:
		return true
	}
	return false
}

// DailyAttendance is the processed fact for one (employee, date). It is fully
// derived from punches, the applied rule, approved exceptions and calendar
// overrides. Recomputation overwrites it in place.
type DailyAttendance struct {
	ID         string
	EmployeeID string
	Date       time.Time

	CheckInTime  *time.Time
	CheckOutTime *time.Time
	BreakOutTime *time.Time
	BreakInTime  *time.Time

	TotalWorkHours     decimal.Decimal
	EffectiveWorkHours decimal.Decimal
	BreakMinutes       int
	OvertimeHours      decimal.Decimal
	// OvertimeMultiplier is copied from the applied rule when the day has
	// overtime, so payroll pays overtime at the rate of the rule that
	// produced it.
	OvertimeMultiplier *decimal.Decimal

	LateMinutes           int
	EarlyDepartureMinutes int

	Status        Status
	AppliedRuleID *string
	Warnings      []string

	IsProcessed bool
	ProcessedAt *time.Time
	ProcessedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MonthlySummary is the additive roll-up of one employee's processed daily
// attendance for a (year, month), plus derived percentages.
type MonthlySummary struct {
	ID         string
	EmployeeID string
	Year       int
	Month      int

	TotalWorkingDays   int
	PresentDays        int
	AbsentDays         int
	LateDays           int
	EarlyDepartureDays int

	LeaveDays   int
	HolidayDays int
	WeekendDays int

	TotalWorkHours             decimal.Decimal
	TotalOvertimeHours         decimal.Decimal
	TotalLateMinutes           int
	TotalEarlyDepartureMinutes int

	AttendancePercentage  decimal.Decimal
	PunctualityPercentage decimal.Decimal

	IsFinalized bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExceptionType enum
type ExceptionType string

const (
	ExceptionManualAdjustment  ExceptionType = "manual_adjustment"
	ExceptionMissingPunch      ExceptionType = "missing_punch"
	ExceptionApprovedOvertime  ExceptionType = "approved_overtime"
	ExceptionFieldWork         ExceptionType = "field_work"
	ExceptionDeviceMalfunction ExceptionType = "device_malfunction"
)

// Exception is an approved manual adjustment for one (employee, date). The
// daily calculator re-applies it deterministically on every recomputation, so
// derived facts stay hand-edit free.
type Exception struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Type       ExceptionType

	AdjustedCheckIn   *time.Time
	AdjustedCheckOut  *time.Time
	AdjustedWorkHours *decimal.Decimal

	Description string
	RequestedBy string
	ApprovedBy  *string
	IsApproved  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PeriodAttendance is the attendance window handed to the payslip calculator
// for an arbitrary date range (a payroll period need not align with a month).
type PeriodAttendance struct {
	EmployeeID    string
	WorkingDays   int
	PresentDays   int
	AbsentDays    int
	LeaveDays     int
	OvertimeHours decimal.Decimal
	// OvertimeMultiplier is the multiplier of the rule applied on the window's
	// overtime days. Zero means no rule supplied one and the caller's default
	// applies.
	OvertimeMultiplier decimal.Decimal
}
