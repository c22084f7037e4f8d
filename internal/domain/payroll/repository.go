package payroll

import (
	"context"
	"time"
)

// StructureRepository provides salary structures. The engine treats it as a
// read-only configuration store during a run.
type StructureRepository interface {
	// GetSalaryStructures returns every structure (active or not) recorded
	// for the employee; the resolver applies effective-range precedence.
	GetSalaryStructures(ctx context.Context, employeeID string) ([]SalaryStructure, error)
}

// PeriodRepository persists payroll periods and their running totals.
type PeriodRepository interface {
	GetPeriod(ctx context.Context, id string) (Period, error)
	SavePeriod(ctx context.Context, p Period) error
	// UpdatePeriodTotals writes the aggregate columns only; callers compute
	// them in a single reducing pass, never via read-modify-write.
	UpdatePeriodTotals(ctx context.Context, p Period) error
}

// PayslipRepository persists calculated payslips, keyed by (employee, period).
type PayslipRepository interface {
	SavePayslip(ctx context.Context, p Payslip) error
	GetPayslip(ctx context.Context, employeeID, periodID string) (Payslip, error)
	ListByPeriod(ctx context.Context, periodID string) ([]Payslip, error)
	// NextPayslipNumber allocates the next sequential payslip number for the
	// period's year/month (PS<yyyy><mm><seq>).
	NextPayslipNumber(ctx context.Context, year int, month time.Month) (string, error)
}

// TransactionRepository provides approved manual adjustments for a period.
type TransactionRepository interface {
	GetApprovedTransactions(ctx context.Context, employeeID, periodID string) ([]Transaction, error)
}

// TaxRepository provides the tax configuration effective on a date.
type TaxRepository interface {
	GetTaxConfig(ctx context.Context, date time.Time) (TaxConfiguration, error)
}
