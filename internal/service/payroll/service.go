package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/domain/employee"
	"github.com/hrsuite/payroll-engine-go/internal/domain/payroll"
	"github.com/hrsuite/payroll-engine-go/internal/pkg/money"
)

type PayrollServiceImpl struct {
	periods    payroll.PeriodRepository
	payslips   payroll.PayslipRepository
	employees  employee.EmployeeRepository
	taxes      payroll.TaxRepository
	calculator *PayslipCalculator

	workerCount int
}

func NewPayrollService(
	periods payroll.PeriodRepository,
	payslips payroll.PayslipRepository,
	employees employee.EmployeeRepository,
	structures payroll.StructureRepository,
	transactions payroll.TransactionRepository,
	taxes payroll.TaxRepository,
	attendanceSvc attendance.AttendanceService,
	cfg CalcConfig,
	workerCount int,
) payroll.PayrollService {
	if workerCount < 1 {
		workerCount = 1
	}
	resolver := NewStructureResolver(structures)
	return &PayrollServiceImpl{
		periods:     periods,
		payslips:    payslips,
		employees:   employees,
		taxes:       taxes,
		calculator:  NewPayslipCalculator(resolver, attendanceSvc, transactions, taxes, payslips, cfg),
		workerCount: workerCount,
	}
}

// CalculatePeriod implements payroll.PayrollService. Employees are processed
// concurrently; per-employee errors become outcomes in the RunSummary and
// never abort the batch. Only corrupted tax configuration or a cancelled
// context stops the run, leaving the period in_progress.
func (s *PayrollServiceImpl) CalculatePeriod(ctx context.Context, periodID, actor string) (payroll.RunSummary, error) {
	period, err := s.periods.GetPeriod(ctx, periodID)
	if err != nil {
		return payroll.RunSummary{}, fmt.Errorf("failed to get period: %w", err)
	}
	if !period.IsEditable() {
		return payroll.RunSummary{}, fmt.Errorf("period %s is %s: %w", period.ID, period.Status, payroll.ErrPeriodNotEditable)
	}
	if period.Status == payroll.PeriodDraft {
		if err := period.Transition(payroll.PeriodInProgress); err != nil {
			return payroll.RunSummary{}, err
		}
	}

	// Corrupted tax configuration aborts before any payslip is written.
	if err := s.preflightTaxConfig(ctx, period); err != nil {
		return payroll.RunSummary{}, err
	}

	eligible, err := s.employees.GetEligibleForPeriod(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.RunSummary{}, fmt.Errorf("failed to list eligible employees: %w", err)
	}

	period.TotalEmployees = len(eligible)
	period.ProcessedEmployees = 0
	if err := s.periods.SavePeriod(ctx, period); err != nil {
		return payroll.RunSummary{}, fmt.Errorf("failed to save period: %w", err)
	}

	summary := payroll.RunSummary{
		PeriodID:       period.ID,
		TotalEmployees: len(eligible),
		StartedAt:      time.Now().UTC(),
	}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount)
	for _, emp := range eligible {
		emp := emp
		g.Go(func() error {
			outcome, fatal := s.calculateOne(gCtx, period, emp, actor)
			if fatal != nil {
				return fatal
			}
			mu.Lock()
			defer mu.Unlock()
			summary.Add(outcome)
			period.ProcessedEmployees = summary.Processed
			// Checkpoint the processed count as outcomes land so an
			// interrupted run reports how far it got.
			if err := s.periods.UpdatePeriodTotals(ctx, period); err != nil {
				slog.Warn("failed to checkpoint period progress", "period_id", period.ID, "error", err.Error())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// The period stays in_progress so the run can be repeated once the
		// configuration is fixed.
		summary.FinishedAt = time.Now().UTC()
		return summary, err
	}
	summary.FinishedAt = time.Now().UTC()

	period.ProcessedEmployees = summary.Processed
	if err := period.Transition(payroll.PeriodCalculated); err != nil {
		return summary, err
	}
	now := time.Now().UTC()
	period.CalculatedBy = &actor
	period.CalculatedAt = &now
	if err := s.periods.SavePeriod(ctx, period); err != nil {
		return summary, fmt.Errorf("failed to save period: %w", err)
	}
	if _, err := s.RecalculateTotals(ctx, period.ID); err != nil {
		return summary, err
	}

	slog.Info("payroll period calculated",
		"period_id", period.ID,
		"total", summary.TotalEmployees,
		"succeeded", summary.Succeeded,
		"warned", summary.Warned,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

// calculateOne runs the calculator for a single employee and classifies the
// result. The second return value is non-nil only for fatal conditions.
func (s *PayrollServiceImpl) calculateOne(ctx context.Context, period payroll.Period, emp employee.Employee, actor string) (payroll.EmployeeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return payroll.EmployeeOutcome{}, err
	}

	slip, err := s.calculator.Calculate(ctx, period, emp, actor)
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidTaxConfiguration) {
			return payroll.EmployeeOutcome{}, err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return payroll.EmployeeOutcome{}, err
		}
		kind := payroll.OutcomeFailed
		if errors.Is(err, payroll.ErrSalaryStructureNotFound) ||
			errors.Is(err, payroll.ErrUnsupportedCalcMethod) ||
			errors.Is(err, payroll.ErrEmployeeInactiveForPeriod) {
			kind = payroll.OutcomeSkipped
		}
		slog.Warn("employee payroll not calculated", "employee_id", emp.ID, "reason", err.Error())
		return payroll.EmployeeOutcome{EmployeeID: emp.ID, Kind: kind, Reason: err.Error()}, nil
	}

	outcome := payroll.EmployeeOutcome{EmployeeID: emp.ID, Kind: payroll.OutcomeCalculated, Warnings: slip.Warnings}
	if len(slip.Warnings) > 0 || slip.NeedsReview {
		outcome.Kind = payroll.OutcomeWarned
		if slip.NeedsReview && slip.ReviewReason != nil {
			outcome.Reason = *slip.ReviewReason
		}
	}
	return outcome, nil
}

func (s *PayrollServiceImpl) preflightTaxConfig(ctx context.Context, period payroll.Period) error {
	cfg, err := s.taxes.GetTaxConfig(ctx, period.EndDate)
	if err != nil {
		if errors.Is(err, payroll.ErrTaxConfigurationNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get tax configuration: %w", err)
	}
	return cfg.Validate()
}

// CalculateEmployee implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateEmployee(ctx context.Context, periodID, employeeID, actor string) (payroll.Payslip, error) {
	period, err := s.periods.GetPeriod(ctx, periodID)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to get period: %w", err)
	}
	if !period.IsEditable() {
		return payroll.Payslip{}, fmt.Errorf("period %s is %s: %w", period.ID, period.Status, payroll.ErrPeriodNotEditable)
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to get employee: %w", err)
	}

	slip, err := s.calculator.Calculate(ctx, period, emp, actor)
	if err != nil {
		return payroll.Payslip{}, err
	}
	if _, err := s.RecalculateTotals(ctx, period.ID); err != nil {
		return payroll.Payslip{}, err
	}
	return slip, nil
}

// RecalculateTotals implements payroll.PayrollService. Totals come from one
// reducing pass over the period's counted payslips.
func (s *PayrollServiceImpl) RecalculateTotals(ctx context.Context, periodID string) (payroll.Period, error) {
	period, err := s.periods.GetPeriod(ctx, periodID)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("failed to get period: %w", err)
	}

	slips, err := s.payslips.ListByPeriod(ctx, periodID)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("failed to list payslips: %w", err)
	}

	gross, deductions, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, slip := range slips {
		if !slip.Status.CountsTowardTotals() {
			continue
		}
		gross = gross.Add(slip.GrossSalary)
		deductions = deductions.Add(slip.TotalDeductions)
		net = net.Add(slip.NetSalary)
	}
	period.TotalGrossSalary = money.Round(gross)
	period.TotalDeductions = money.Round(deductions)
	period.TotalNetSalary = money.Round(net)

	if err := s.periods.UpdatePeriodTotals(ctx, period); err != nil {
		return payroll.Period{}, fmt.Errorf("failed to update period totals: %w", err)
	}
	return period, nil
}

// ApprovePeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) ApprovePeriod(ctx context.Context, periodID, actor string) (payroll.Period, error) {
	return s.transition(ctx, periodID, payroll.PeriodApproved, func(p *payroll.Period) {
		now := time.Now().UTC()
		p.ApprovedBy = &actor
		p.ApprovedAt = &now
	})
}

// MarkPeriodPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPeriodPaid(ctx context.Context, periodID, actor string) (payroll.Period, error) {
	return s.transition(ctx, periodID, payroll.PeriodPaid, nil)
}

// ClosePeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) ClosePeriod(ctx context.Context, periodID, actor string) (payroll.Period, error) {
	return s.transition(ctx, periodID, payroll.PeriodClosed, nil)
}

// ReopenPeriod implements payroll.PayrollService. Only calculated and
// approved periods have a reopen edge; paid and closed do not.
func (s *PayrollServiceImpl) ReopenPeriod(ctx context.Context, periodID, actor string) (payroll.Period, error) {
	return s.transition(ctx, periodID, payroll.PeriodInProgress, func(p *payroll.Period) {
		p.ApprovedBy = nil
		p.ApprovedAt = nil
	})
}

func (s *PayrollServiceImpl) transition(ctx context.Context, periodID string, next payroll.PeriodStatus, mutate func(*payroll.Period)) (payroll.Period, error) {
	period, err := s.periods.GetPeriod(ctx, periodID)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("failed to get period: %w", err)
	}
	if err := period.Transition(next); err != nil {
		return payroll.Period{}, fmt.Errorf("period %s to %s: %w", period.ID, next, err)
	}
	if mutate != nil {
		mutate(&period)
	}
	period.UpdatedAt = time.Now().UTC()
	if err := s.periods.SavePeriod(ctx, period); err != nil {
		return payroll.Period{}, fmt.Errorf("failed to save period: %w", err)
	}
	return period, nil
}
