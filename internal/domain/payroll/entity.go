package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentAllowance  ComponentType = "allowance"
	ComponentBonus      ComponentType = "bonus"
	ComponentOvertime   ComponentType = "overtime"
	ComponentCommission ComponentType = "commission"
	ComponentDeduction  ComponentType = "deduction"
	ComponentTax        ComponentType = "tax"
	ComponentInsurance  ComponentType = "insurance"
	ComponentLoan       ComponentType = "loan_deduction"
	ComponentAdvance    ComponentType = "advance_deduction"
)

// IsEarning reports whether the component adds to the gross side.
func (c ComponentType) IsEarning() bool {
	switch c {
	case ComponentAllowance, ComponentBonus, ComponentOvertime, ComponentCommission:
		return true
	}
	return false
}

// CalculationMethod is a closed enum; the calculator handles every variant
// explicitly and rejects anything else.
type CalculationMethod string

const (
	MethodFixed      CalculationMethod = "fixed"
	MethodPercentage CalculationMethod = "percentage"
	MethodFormula    CalculationMethod = "formula"
)

// ComponentBinding attaches one salary component to a structure with its
// amount or rate.
type ComponentBinding struct {
	ID          string
	ComponentID string
	Name        string
	Type        ComponentType
	Method      CalculationMethod
	Amount      decimal.Decimal
	Rate        *decimal.Decimal
	IsActive    bool
}

// SalaryStructure is an employee's salary configuration for an effective
// date range, owning its component bindings.
type SalaryStructure struct {
	ID          string
	EmployeeID  string
	BasicSalary decimal.Decimal
	Currency    string

	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	IsActive      bool

	Components []ComponentBinding

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OverlapsPeriod reports whether the structure's effective range intersects
// [periodStart, periodEnd].
func (s SalaryStructure) OverlapsPeriod(periodStart, periodEnd time.Time) bool {
	if s.EffectiveFrom.After(periodEnd) {
		return false
	}
	if s.EffectiveTo != nil && s.EffectiveTo.Before(periodStart) {
		return false
	}
	return true
}

// ActiveComponents returns the active bindings only.
func (s SalaryStructure) ActiveComponents() []ComponentBinding {
	out := make([]ComponentBinding, 0, len(s.Components))
	for _, c := range s.Components {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

// PayslipStatus enum
type PayslipStatus string

const (
	PayslipDraft      PayslipStatus = "draft"
	PayslipCalculated PayslipStatus = "calculated"
	PayslipApproved   PayslipStatus = "approved"
	PayslipPaid       PayslipStatus = "paid"
	PayslipCancelled  PayslipStatus = "cancelled"
)

// CountsTowardTotals reports whether the payslip contributes to period totals.
func (s PayslipStatus) CountsTowardTotals() bool {
	switch s {
	case PayslipCalculated, PayslipApproved, PayslipPaid:
		return true
	}
	return false
}

// LineItem is one itemized contribution to a payslip, kept for auditability.
type LineItem struct {
	ID              string
	ComponentID     *string
	Name            string
	Type            ComponentType
	Amount          decimal.Decimal
	CalculationBase *decimal.Decimal
	Rate            *decimal.Decimal
	Notes           string
}

// Payslip is the calculated salary result for one (employee, period).
type Payslip struct {
	ID                string
	Number            string
	EmployeeID        string
	PayrollPeriodID   string
	SalaryStructureID string

	WorkingDays   int
	PresentDays   int
	AbsentDays    int
	LeaveDays     int
	OvertimeHours decimal.Decimal

	BasicSalary     decimal.Decimal
	TotalAllowances decimal.Decimal
	TotalBonuses    decimal.Decimal
	OvertimeAmount  decimal.Decimal
	GrossSalary     decimal.Decimal

	TaxDeduction       decimal.Decimal
	InsuranceDeduction decimal.Decimal
	LoanDeduction      decimal.Decimal
	AdvanceDeduction   decimal.Decimal
	OtherDeductions    decimal.Decimal
	TotalDeductions    decimal.Decimal

	NetSalary decimal.Decimal

	LineItems []LineItem

	Status       PayslipStatus
	NeedsReview  bool
	ReviewReason *string
	Warnings     []string

	CalculatedAt *time.Time
	CalculatedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransactionType enum
type TransactionType string

const (
	TxnBonus       TransactionType = "bonus"
	TxnAllowance   TransactionType = "allowance"
	TxnOvertime    TransactionType = "overtime"
	TxnDeduction   TransactionType = "deduction"
	TxnAdvance     TransactionType = "advance"
	TxnLoanPayment TransactionType = "loan_payment"
	TxnPenalty     TransactionType = "penalty"
	TxnAdjustment  TransactionType = "adjustment"
)

// Transaction is a manual one-off adjustment tied to an employee and period.
// Only approved transactions may affect a payslip.
type Transaction struct {
	ID              string
	EmployeeID      string
	PayrollPeriodID string

	Type        TransactionType
	Description string
	Amount      decimal.Decimal

	ReferenceNumber string
	IsApproved      bool
	ApprovedBy      *string
	ApprovedAt      *time.Time

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
