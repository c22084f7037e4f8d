package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hrsuite/payroll-engine-go/internal/config"
	attendanceDomain "github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/domain/employee"
	payrollDomain "github.com/hrsuite/payroll-engine-go/internal/domain/payroll"
	"github.com/hrsuite/payroll-engine-go/internal/fixtures"
	"github.com/hrsuite/payroll-engine-go/internal/pkg/cron"
	"github.com/hrsuite/payroll-engine-go/internal/repository/memory"
	attendanceService "github.com/hrsuite/payroll-engine-go/internal/service/attendance"
	payrollService "github.com/hrsuite/payroll-engine-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	setupLogger(cfg.App.LogLevel)

	punchRepo := memory.NewPunchRepository()
	ruleRepo := memory.NewRuleRepository()
	dailyRepo := memory.NewDailyAttendanceRepository()
	summaryRepo := memory.NewMonthlySummaryRepository()
	exceptionRepo := memory.NewExceptionRepository()
	calendar := memory.NewCalendar()
	employeeRepo := memory.NewEmployeeRepository()
	structureRepo := memory.NewStructureRepository()
	periodRepo := memory.NewPeriodRepository()
	payslipRepo := memory.NewPayslipRepository()
	transactionRepo := memory.NewTransactionRepository()
	taxRepo := memory.NewTaxRepository()

	ruleRepo.Add(fixtures.GetDefaultRule())
	ruleRepo.Add(fixtures.GetNightShiftRule("dept-operations"))
	ruleRepo.Add(fixtures.GetAfternoonShiftRule("dept-support"))
	taxRepo.Add(fixtures.GetDefaultTaxConfig())

	attendanceSvc := attendanceService.NewAttendanceService(
		punchRepo, ruleRepo, dailyRepo, summaryRepo, exceptionRepo, calendar, employeeRepo,
		cfg.App.ServiceAccount,
	)
	payrollSvc := payrollService.NewPayrollService(
		periodRepo, payslipRepo, employeeRepo, structureRepo, transactionRepo, taxRepo,
		attendanceSvc,
		payrollService.CalcConfig{
			MonthlyBaseHours:     cfg.Payroll.MonthlyBaseHours,
			OvertimeMultiplier:   cfg.Payroll.OvertimeMultiplier,
			DefaultInsuranceRate: cfg.Payroll.DefaultInsuranceRate,
			Currency:             cfg.Payroll.Currency,
		},
		cfg.Payroll.WorkerCount,
	)

	ctx := context.Background()
	periodStart, periodEnd := seedDemoData(employeeRepo, structureRepo, punchRepo, periodRepo)

	for day := periodStart; !day.After(periodEnd); day = day.AddDate(0, 0, 1) {
		if _, err := attendanceSvc.ProcessDay(ctx, demoEmployeeID, day); err != nil {
			slog.Error("failed to process day", "date", day.Format("2006-01-02"), "error", err)
			return
		}
	}

	summary, err := payrollSvc.CalculatePeriod(ctx, demoPeriodID, cfg.App.ServiceAccount)
	if err != nil {
		slog.Error("payroll run failed", "error", err)
		return
	}

	slog.Info("payroll run finished",
		"period", summary.PeriodID,
		"total", summary.TotalEmployees,
		"succeeded", summary.Succeeded,
		"warned", summary.Warned,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)

	slip, err := payslipRepo.GetPayslip(ctx, demoEmployeeID, demoPeriodID)
	if err != nil {
		slog.Error("failed to read payslip", "error", err)
		return
	}
	slog.Info("payslip",
		"number", slip.Number,
		"working_days", slip.WorkingDays,
		"present_days", slip.PresentDays,
		"gross", slip.GrossSalary.String(),
		"deductions", slip.TotalDeductions.String(),
		"net", slip.NetSalary.String(),
		"currency", cfg.Payroll.Currency,
	)

	if cfg.Scheduler.Enabled {
		scheduler := cron.NewScheduler()
		jobs := cron.NewAttendanceJobs(attendanceSvc, employeeRepo,
			cfg.Scheduler.DailyRecomputeInterval, cfg.Scheduler.SummaryRefreshInterval)
		jobs.RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
		// Bring the current data up to date before the first tick.
		scheduler.RunOnce(ctx)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down")
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

const (
	demoEmployeeID = "emp-demo-0001"
	demoPeriodID   = "period-demo-0001"
)

// seedDemoData loads one employee, a salary structure and a month of punches
// so the binary demonstrates a full run without external systems.
func seedDemoData(
	employees *memory.EmployeeRepository,
	structures *memory.StructureRepository,
	punches *memory.PunchRepository,
	periods *memory.PeriodRepository,
) (periodStart, periodEnd time.Time) {
	periodStart = time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	periodEnd = time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC)

	employees.Add(employee.Employee{
		ID:           demoEmployeeID,
		EmployeeCode: "EMP0001",
		FullName:     "Demo Employee",
		DepartmentID: "dept-engineering",
		JobTitleID:   "title-engineer",
		HireDate:     time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
	})

	structures.Add(payrollDomain.SalaryStructure{
		ID:            "structure-demo-0001",
		EmployeeID:    demoEmployeeID,
		BasicSalary:   decimal.NewFromInt(4800),
		Currency:      "SAR",
		EffectiveFrom: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
		Components:    fixtures.GetDefaultComponents(),
	})

	for day := periodStart; !day.After(periodEnd); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		punches.Add(attendanceDomain.Punch{
			ID:           "punch-in-" + day.Format("20060102"),
			EmployeeID:   demoEmployeeID,
			DeviceID:     "device-gate-1",
			PunchTime:    day.Add(8*time.Hour + 55*time.Minute),
			Type:         attendanceDomain.PunchCheckIn,
			Verification: attendanceDomain.VerifyFingerprint,
			IsValid:      true,
		})
		punches.Add(attendanceDomain.Punch{
			ID:           "punch-out-" + day.Format("20060102"),
			EmployeeID:   demoEmployeeID,
			DeviceID:     "device-gate-1",
			PunchTime:    day.Add(18*time.Hour + 5*time.Minute),
			Type:         attendanceDomain.PunchCheckOut,
			Verification: attendanceDomain.VerifyFingerprint,
			IsValid:      true,
		})
	}

	_ = periods.SavePeriod(context.Background(), payrollDomain.Period{
		ID:        demoPeriodID,
		Name:      "July 2026",
		StartDate: periodStart,
		EndDate:   periodEnd,
		PayDate:   time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC),
		Status:    payrollDomain.PeriodDraft,
	})

	return periodStart, periodEnd
}
