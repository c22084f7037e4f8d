package payroll

import "context"

// PayrollService drives payslip calculation over a period and manages the
// period lifecycle.
type PayrollService interface {
	// CalculatePeriod runs the payslip calculator over every eligible
	// employee. Per-employee failures are collected in the RunSummary;
	// only corrupted configuration or an unavailable repository aborts.
	// actor identifies the service account performing the run.
	CalculatePeriod(ctx context.Context, periodID, actor string) (RunSummary, error)

	// CalculateEmployee computes one employee's payslip for the period.
	CalculateEmployee(ctx context.Context, periodID, employeeID, actor string) (Payslip, error)

	// RecalculateTotals recomputes period-wide totals in a single reducing
	// pass over the period's counted payslips.
	RecalculateTotals(ctx context.Context, periodID string) (Period, error)

	ApprovePeriod(ctx context.Context, periodID, actor string) (Period, error)
	MarkPeriodPaid(ctx context.Context, periodID, actor string) (Period, error)
	ClosePeriod(ctx context.Context, periodID, actor string) (Period, error)
	// ReopenPeriod moves a calculated or approved period back to
	// in_progress. Paid and closed periods can never be reopened.
	ReopenPeriod(ctx context.Context, periodID, actor string) (Period, error)
}
