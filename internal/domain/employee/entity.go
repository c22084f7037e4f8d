package employee

import (
	"time"
)

type Employee struct {
	ID              string
	EmployeeCode    string
	FullName        string
	DepartmentID    string
	JobTitleID      string
	WorkSiteID      string
	HireDate        time.Time
	TerminationDate *time.Time
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EligibleForPeriod reports whether the employee should be included in a
// payroll run covering [periodStart, periodEnd]: active, hired on or before
// the period end, and not terminated before the period start.
func (e Employee) EligibleForPeriod(periodStart, periodEnd time.Time) bool {
	if !e.IsActive {
		return false
	}
	if e.HireDate.After(periodEnd) {
		return false
	}
	if e.TerminationDate != nil && e.TerminationDate.Before(periodStart) {
		return false
	}
	return true
}
