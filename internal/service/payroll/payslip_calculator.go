package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/domain/employee"
	"github.com/hrsuite/payroll-engine-go/internal/domain/payroll"
	"github.com/hrsuite/payroll-engine-go/internal/pkg/money"
)

const (
	warnNoWorkingDays   = "period has no working days; basic salary not pro-rated"
	warnMissingRate     = "percentage component has no rate; component skipped"
	warnNoTaxConfig     = "no tax configuration effective for the period; statutory tax skipped"
	reviewNegativeNet   = "net salary is negative"
	notesStatutory      = "statutory"
	notesProRated       = "pro-rated by attendance"
	notesFromTxnPrefix  = "transaction "
	notesOvertimeDetail = "overtime hours at hourly rate x multiplier"
)

// CalcConfig carries the engine-wide payroll constants.
type CalcConfig struct {
	// MonthlyBaseHours converts a monthly basic salary into an hourly rate.
	MonthlyBaseHours decimal.Decimal
	// OvertimeMultiplier scales the hourly rate for overtime pay when the
	// attendance rule that produced the overtime carries no multiplier.
	OvertimeMultiplier decimal.Decimal
	// DefaultInsuranceRate is the fallback insurance percentage applied when
	// the salary structure carries no insurance component. Zero disables it.
	DefaultInsuranceRate decimal.Decimal
	Currency             string
}

// PayslipCalculator computes one employee's payslip for a payroll period
// from the resolved salary structure, the attendance window, approved
// transactions and the statutory tax configuration.
type PayslipCalculator struct {
	resolver     *StructureResolver
	attendance   attendance.AttendanceService
	transactions payroll.TransactionRepository
	taxes        payroll.TaxRepository
	payslips     payroll.PayslipRepository
	cfg          CalcConfig
}

func NewPayslipCalculator(
	resolver *StructureResolver,
	attendanceSvc attendance.AttendanceService,
	transactions payroll.TransactionRepository,
	taxes payroll.TaxRepository,
	payslips payroll.PayslipRepository,
	cfg CalcConfig,
) *PayslipCalculator {
	return &PayslipCalculator{
		resolver:     resolver,
		attendance:   attendanceSvc,
		transactions: transactions,
		taxes:        taxes,
		payslips:     payslips,
		cfg:          cfg,
	}
}

// Calculate builds and persists the payslip for (emp, period). The row ID is
// derived from the natural key and the payslip number is reused across
// recalculations, so the operation is idempotent.
func (c *PayslipCalculator) Calculate(ctx context.Context, period payroll.Period, emp employee.Employee, actor string) (payroll.Payslip, error) {
	if !emp.EligibleForPeriod(period.StartDate, period.EndDate) {
		return payroll.Payslip{}, payroll.ErrEmployeeInactiveForPeriod
	}

	structure, err := c.resolver.Resolve(ctx, emp.ID, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.Payslip{}, err
	}

	window, err := c.attendance.GetPeriodAttendance(ctx, emp.ID, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to get period attendance: %w", err)
	}

	slip := payroll.Payslip{
		ID:                payslipID(emp.ID, period.ID),
		EmployeeID:        emp.ID,
		PayrollPeriodID:   period.ID,
		SalaryStructureID: structure.ID,
		WorkingDays:       window.WorkingDays,
		PresentDays:       window.PresentDays,
		AbsentDays:        window.AbsentDays,
		LeaveDays:         window.LeaveDays,
		OvertimeHours:     window.OvertimeHours,
		Status:            payroll.PayslipCalculated,
	}

	// Pro-rate the basic salary by attendance. A window with no working
	// days cannot be pro-rated; the full basic is paid and flagged.
	basic := structure.BasicSalary
	if window.WorkingDays == 0 {
		slip.Warnings = append(slip.Warnings, warnNoWorkingDays)
		slip.BasicSalary = money.Round(basic)
	} else {
		slip.BasicSalary = money.Round(basic.
			Mul(decimal.NewFromInt(int64(window.PresentDays))).
			Div(decimal.NewFromInt(int64(window.WorkingDays))))
	}
	slip.LineItems = append(slip.LineItems, payroll.LineItem{
		ID:     lineItemID(slip.ID, "basic"),
		Name:   "Basic Salary",
		Type:   payroll.ComponentAllowance,
		Amount: slip.BasicSalary,
		Notes:  notesProRated,
	})

	hasTaxComponent := false
	hasInsuranceComponent := false
	for _, comp := range structure.ActiveComponents() {
		amount, base, rate, err := c.componentAmount(comp, slip.BasicSalary)
		if err != nil {
			return payroll.Payslip{}, err
		}
		if comp.Method == payroll.MethodPercentage && comp.Rate == nil {
			slip.Warnings = append(slip.Warnings, warnMissingRate)
			continue
		}

		item := payroll.LineItem{
			ID:              lineItemID(slip.ID, comp.ID),
			ComponentID:     &comp.ComponentID,
			Name:            comp.Name,
			Type:            comp.Type,
			Amount:          amount,
			CalculationBase: base,
			Rate:            rate,
		}
		slip.LineItems = append(slip.LineItems, item)

		switch comp.Type {
		case payroll.ComponentAllowance, payroll.ComponentCommission:
			slip.TotalAllowances = slip.TotalAllowances.Add(amount)
		case payroll.ComponentBonus:
			slip.TotalBonuses = slip.TotalBonuses.Add(amount)
		case payroll.ComponentOvertime:
			slip.OvertimeAmount = slip.OvertimeAmount.Add(amount)
		case payroll.ComponentTax:
			hasTaxComponent = true
			slip.TaxDeduction = slip.TaxDeduction.Add(amount)
		case payroll.ComponentInsurance:
			hasInsuranceComponent = true
			slip.InsuranceDeduction = slip.InsuranceDeduction.Add(amount)
		case payroll.ComponentLoan:
			slip.LoanDeduction = slip.LoanDeduction.Add(amount)
		case payroll.ComponentAdvance:
			slip.AdvanceDeduction = slip.AdvanceDeduction.Add(amount)
		default:
			slip.OtherDeductions = slip.OtherDeductions.Add(amount)
		}
	}

	if window.OvertimeHours.IsPositive() {
		// Hourly rate comes from the pro-rated basic, and the multiplier from
		// the attendance rule that produced the overtime when it carries one.
		multiplier := window.OvertimeMultiplier
		if !multiplier.IsPositive() {
			multiplier = c.cfg.OvertimeMultiplier
		}
		hourlyRate := slip.BasicSalary.Div(c.cfg.MonthlyBaseHours)
		overtimePay := money.Round(window.OvertimeHours.Mul(hourlyRate).Mul(multiplier))
		slip.OvertimeAmount = slip.OvertimeAmount.Add(overtimePay)
		slip.LineItems = append(slip.LineItems, payroll.LineItem{
			ID:     lineItemID(slip.ID, "overtime"),
			Name:   "Overtime Pay",
			Type:   payroll.ComponentOvertime,
			Amount: overtimePay,
			Notes:  notesOvertimeDetail,
		})
	}

	if err := c.applyTransactions(ctx, &slip); err != nil {
		return payroll.Payslip{}, err
	}

	slip.GrossSalary = money.Round(slip.BasicSalary.
		Add(slip.TotalAllowances).
		Add(slip.TotalBonuses).
		Add(slip.OvertimeAmount))

	if !hasTaxComponent {
		if err := c.applyStatutoryTax(ctx, period, &slip); err != nil {
			return payroll.Payslip{}, err
		}
	}

	if !hasInsuranceComponent && c.cfg.DefaultInsuranceRate.IsPositive() {
		insurance := money.Percent(slip.BasicSalary, c.cfg.DefaultInsuranceRate)
		slip.InsuranceDeduction = slip.InsuranceDeduction.Add(insurance)
		slip.LineItems = append(slip.LineItems, payroll.LineItem{
			ID:              lineItemID(slip.ID, "insurance"),
			Name:            "Insurance",
			Type:            payroll.ComponentInsurance,
			Amount:          insurance,
			CalculationBase: &slip.BasicSalary,
			Rate:            &c.cfg.DefaultInsuranceRate,
			Notes:           notesStatutory,
		})
	}

	slip.TotalDeductions = money.Round(slip.TaxDeduction.
		Add(slip.InsuranceDeduction).
		Add(slip.LoanDeduction).
		Add(slip.AdvanceDeduction).
		Add(slip.OtherDeductions))
	slip.NetSalary = money.Round(slip.GrossSalary.Sub(slip.TotalDeductions))

	if slip.NetSalary.IsNegative() {
		slip.NeedsReview = true
		reason := reviewNegativeNet
		slip.ReviewReason = &reason
	}

	if err := c.assignNumber(ctx, period, &slip); err != nil {
		return payroll.Payslip{}, err
	}

	now := time.Now().UTC()
	slip.CalculatedAt = &now
	slip.CalculatedBy = actor
	slip.UpdatedAt = now
	if slip.CreatedAt.IsZero() {
		slip.CreatedAt = now
	}

	if err := c.payslips.SavePayslip(ctx, slip); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to save payslip: %w", err)
	}
	return slip, nil
}

// componentAmount resolves one binding into a concrete amount. Percentage
// components are based on the pro-rated basic salary. Formula components are
// not evaluated by this engine.
func (c *PayslipCalculator) componentAmount(comp payroll.ComponentBinding, proratedBasic decimal.Decimal) (amount decimal.Decimal, base, rate *decimal.Decimal, err error) {
	switch comp.Method {
	case payroll.MethodFixed:
		return money.Round(comp.Amount), nil, nil, nil
	case payroll.MethodPercentage:
		if comp.Rate == nil {
			return decimal.Zero, nil, nil, nil
		}
		return money.Percent(proratedBasic, *comp.Rate), &proratedBasic, comp.Rate, nil
	case payroll.MethodFormula:
		return decimal.Zero, nil, nil, fmt.Errorf("component %q: %w", comp.Name, payroll.ErrUnsupportedCalcMethod)
	default:
		return decimal.Zero, nil, nil, fmt.Errorf("component %q method %q: %w", comp.Name, comp.Method, payroll.ErrUnsupportedCalcMethod)
	}
}

// applyTransactions folds approved one-off transactions into the payslip
// buckets. Unapproved transactions never reach this point.
func (c *PayslipCalculator) applyTransactions(ctx context.Context, slip *payroll.Payslip) error {
	txns, err := c.transactions.GetApprovedTransactions(ctx, slip.EmployeeID, slip.PayrollPeriodID)
	if err != nil {
		return fmt.Errorf("failed to get approved transactions: %w", err)
	}

	for _, txn := range txns {
		amount := money.Round(txn.Amount)
		itemType := payroll.ComponentAllowance

		switch txn.Type {
		case payroll.TxnBonus:
			itemType = payroll.ComponentBonus
			slip.TotalBonuses = slip.TotalBonuses.Add(amount)
		case payroll.TxnAllowance, payroll.TxnAdjustment:
			slip.TotalAllowances = slip.TotalAllowances.Add(amount)
		case payroll.TxnOvertime:
			itemType = payroll.ComponentOvertime
			slip.OvertimeAmount = slip.OvertimeAmount.Add(amount)
		case payroll.TxnDeduction, payroll.TxnPenalty:
			itemType = payroll.ComponentDeduction
			slip.OtherDeductions = slip.OtherDeductions.Add(amount)
		case payroll.TxnAdvance:
			itemType = payroll.ComponentAdvance
			slip.AdvanceDeduction = slip.AdvanceDeduction.Add(amount)
		case payroll.TxnLoanPayment:
			itemType = payroll.ComponentLoan
			slip.LoanDeduction = slip.LoanDeduction.Add(amount)
		default:
			slip.TotalAllowances = slip.TotalAllowances.Add(amount)
		}

		slip.LineItems = append(slip.LineItems, payroll.LineItem{
			ID:     lineItemID(slip.ID, txn.ID),
			Name:   txn.Description,
			Type:   itemType,
			Amount: amount,
			Notes:  notesFromTxnPrefix + txn.ReferenceNumber,
		})
	}
	return nil
}

// applyStatutoryTax computes tax from the configuration effective at the
// period end. A missing configuration skips statutory tax with a warning; a
// corrupted one is fatal and must abort the whole run.
func (c *PayslipCalculator) applyStatutoryTax(ctx context.Context, period payroll.Period, slip *payroll.Payslip) error {
	cfg, err := c.taxes.GetTaxConfig(ctx, period.EndDate)
	if err != nil {
		if errors.Is(err, payroll.ErrTaxConfigurationNotFound) {
			slip.Warnings = append(slip.Warnings, warnNoTaxConfig)
			return nil
		}
		return fmt.Errorf("failed to get tax configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	tax := ComputeTax(cfg, slip.GrossSalary)
	if tax.IsZero() {
		return nil
	}
	slip.TaxDeduction = slip.TaxDeduction.Add(tax)
	slip.LineItems = append(slip.LineItems, payroll.LineItem{
		ID:              lineItemID(slip.ID, "tax"),
		Name:            cfg.Name,
		Type:            payroll.ComponentTax,
		Amount:          tax,
		CalculationBase: &slip.GrossSalary,
		Notes:           notesStatutory,
	})
	return nil
}

// assignNumber reuses the number (and creation time) of an existing payslip
// for the same (employee, period); otherwise it allocates the next number in
// the period's month sequence.
func (c *PayslipCalculator) assignNumber(ctx context.Context, period payroll.Period, slip *payroll.Payslip) error {
	existing, err := c.payslips.GetPayslip(ctx, slip.EmployeeID, slip.PayrollPeriodID)
	if err == nil {
		slip.Number = existing.Number
		slip.CreatedAt = existing.CreatedAt
		return nil
	}
	if !errors.Is(err, payroll.ErrPayslipNotFound) {
		return fmt.Errorf("failed to get existing payslip: %w", err)
	}

	number, err := c.payslips.NextPayslipNumber(ctx, period.StartDate.Year(), period.StartDate.Month())
	if err != nil {
		return fmt.Errorf("failed to allocate payslip number: %w", err)
	}
	slip.Number = number
	return nil
}

func payslipID(employeeID, periodID string) string {
	name := "payslip:" + employeeID + ":" + periodID
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func lineItemID(payslipID, key string) string {
	name := "line:" + payslipID + ":" + key
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
