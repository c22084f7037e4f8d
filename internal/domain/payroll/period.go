package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus enum. Transitions are monotonic forward except an explicit
// reopen from calculated/approved back to in_progress.
type PeriodStatus string

const (
	PeriodDraft      PeriodStatus = "draft"
	PeriodInProgress PeriodStatus = "in_progress"
	PeriodCalculated PeriodStatus = "calculated"
	PeriodApproved   PeriodStatus = "approved"
	PeriodPaid       PeriodStatus = "paid"
	PeriodClosed     PeriodStatus = "closed"
)

var periodTransitions = map[PeriodStatus][]PeriodStatus{
	PeriodDraft:      {PeriodInProgress},
	PeriodInProgress: {PeriodCalculated},
	PeriodCalculated: {PeriodApproved, PeriodInProgress},
	PeriodApproved:   {PeriodPaid, PeriodInProgress},
	PeriodPaid:       {PeriodClosed},
	PeriodClosed:     {},
}

// CanTransitionTo reports whether the forward edge from s to next exists.
func (s PeriodStatus) CanTransitionTo(next PeriodStatus) bool {
	for _, allowed := range periodTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Period is a payroll processing window with its own lifecycle.
type Period struct {
	ID   string
	Name string

	StartDate time.Time
	EndDate   time.Time
	PayDate   time.Time

	Status             PeriodStatus
	TotalEmployees     int
	ProcessedEmployees int

	TotalGrossSalary decimal.Decimal
	TotalDeductions  decimal.Decimal
	TotalNetSalary   decimal.Decimal

	CalculatedBy *string
	CalculatedAt *time.Time
	ApprovedBy   *string
	ApprovedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEditable reports whether the period still accepts changes.
func (p Period) IsEditable() bool {
	return p.Status == PeriodDraft || p.Status == PeriodInProgress
}

// Progress returns the processing progress percentage (0-100).
func (p Period) Progress() decimal.Decimal {
	if p.TotalEmployees == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p.ProcessedEmployees)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(p.TotalEmployees))).
		Round(2)
}

// Transition moves the period to next if the edge is allowed.
func (p *Period) Transition(next PeriodStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return ErrInvalidPeriodTransition
	}
	p.Status = next
	return nil
}
