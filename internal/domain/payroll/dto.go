package payroll

import "time"

// OutcomeKind classifies one employee's result within a period run.
type OutcomeKind string

const (
	OutcomeCalculated OutcomeKind = "calculated"
	OutcomeWarned     OutcomeKind = "warned"
	OutcomeSkipped    OutcomeKind = "skipped"
	OutcomeFailed     OutcomeKind = "failed"
)

// EmployeeOutcome records what happened to a single employee during a run.
type EmployeeOutcome struct {
	EmployeeID string
	Kind       OutcomeKind
	Reason     string
	Warnings   []string
}

// RunSummary is the auditable result of a period run. Per-employee errors
// never abort the batch; they are collected here instead.
type RunSummary struct {
	PeriodID string

	TotalEmployees int
	Processed      int
	Succeeded      int
	Warned         int
	Skipped        int
	Failed         int

	Outcomes []EmployeeOutcome

	StartedAt  time.Time
	FinishedAt time.Time
}

// Add records one outcome and bumps the matching counters.
func (r *RunSummary) Add(o EmployeeOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Processed++
	switch o.Kind {
	case OutcomeCalculated:
		r.Succeeded++
	case OutcomeWarned:
		r.Succeeded++
		r.Warned++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}
