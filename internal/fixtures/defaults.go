// Package fixtures provides the default configuration a fresh deployment
// starts from: attendance rules for the common shifts, a baseline salary
// component set and a statutory tax configuration. The demo binary and the
// test suites seed from here.
package fixtures

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/domain/payroll"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func clock(hour, minute int) *time.Time {
	t := time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
	return &t
}

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// ==========================================
// DEFAULT ATTENDANCE RULES
// ==========================================

// GetDefaultRule returns the general fallback rule: standard office hours
// with a 15 minute grace window on both ends.
func GetDefaultRule() attendance.Rule {
	return attendance.Rule{
		ID:                         "rule-standard-office",
		Name:                       "Standard Office Hours",
		WorkStartTime:              clock(9, 0),
		WorkEndTime:                clock(18, 0),
		BreakStartTime:             clock(12, 0),
		BreakEndTime:               clock(13, 0),
		LateGraceMinutes:           15,
		EarlyDepartureGraceMinutes: 15,
		OvertimeThresholdMinutes:   8 * 60,
		OvertimeMultiplier:         decimal.NewFromFloat(1.5),
		AppliesToAll:               true,
		EffectiveFrom:              time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:                   true,
	}
}

// GetNightShiftRule returns the overnight shift rule (22:00 to 06:00 next
// day). Checkout lands on the next calendar day; the daily calculator
// handles the rollover.
func GetNightShiftRule(departmentIDs ...string) attendance.Rule {
	return attendance.Rule{
		ID:                         "rule-night-shift",
		Name:                       "Night Shift",
		WorkStartTime:              clock(22, 0),
		WorkEndTime:                clock(6, 0),
		LateGraceMinutes:           15,
		EarlyDepartureGraceMinutes: 15,
		OvertimeThresholdMinutes:   8 * 60,
		OvertimeMultiplier:         decimal.NewFromFloat(1.5),
		DepartmentIDs:              departmentIDs,
		EffectiveFrom:              time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:                   true,
	}
}

// GetAfternoonShiftRule returns the second shift rule (14:00 to 22:00).
func GetAfternoonShiftRule(departmentIDs ...string) attendance.Rule {
	return attendance.Rule{
		ID:                         "rule-afternoon-shift",
		Name:                       "Afternoon Shift",
		WorkStartTime:              clock(14, 0),
		WorkEndTime:                clock(22, 0),
		BreakStartTime:             clock(18, 0),
		BreakEndTime:               clock(19, 0),
		LateGraceMinutes:           15,
		EarlyDepartureGraceMinutes: 15,
		OvertimeThresholdMinutes:   8 * 60,
		OvertimeMultiplier:         decimal.NewFromFloat(1.5),
		DepartmentIDs:              departmentIDs,
		EffectiveFrom:              time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:                   true,
	}
}

// ==========================================
// DEFAULT SALARY COMPONENTS
// ==========================================

// GetDefaultComponents returns a baseline component set for a new salary
// structure: housing and transport allowances plus a percentage insurance
// deduction.
func GetDefaultComponents() []payroll.ComponentBinding {
	return []payroll.ComponentBinding{
		{
			ID:          "comp-housing",
			ComponentID: "housing-allowance",
			Name:        "Housing Allowance",
			Type:        payroll.ComponentAllowance,
			Method:      payroll.MethodPercentage,
			Rate:        decPtr(decimal.NewFromInt(25)),
			IsActive:    true,
		},
		{
			ID:          "comp-transport",
			ComponentID: "transport-allowance",
			Name:        "Transport Allowance",
			Type:        payroll.ComponentAllowance,
			Method:      payroll.MethodFixed,
			Amount:      decimal.NewFromInt(200),
			IsActive:    true,
		},
		{
			ID:          "comp-insurance",
			ComponentID: "social-insurance",
			Name:        "Social Insurance",
			Type:        payroll.ComponentInsurance,
			Method:      payroll.MethodPercentage,
			Rate:        decPtr(decimal.NewFromInt(2)),
			IsActive:    true,
		},
	}
}

// ==========================================
// DEFAULT TAX CONFIGURATION
// ==========================================

// GetDefaultTaxConfig returns the statutory default: a flat 5% on the part
// of gross salary above 3000, anything at or below that threshold tax free.
func GetDefaultTaxConfig() payroll.TaxConfiguration {
	return payroll.TaxConfiguration{
		ID:               "tax-flat-default",
		Name:             "Income Tax",
		Method:           payroll.TaxFlatRate,
		Rate:             decimal.NewFromInt(5),
		MinTaxableAmount: decimal.NewFromInt(3000),
		EffectiveFrom:    time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:         true,
	}
}

// GetProgressiveTaxConfig returns a three band progressive schedule used by
// deployments that opt out of the flat default.
func GetProgressiveTaxConfig() payroll.TaxConfiguration {
	return payroll.TaxConfiguration{
		ID:               "tax-progressive-default",
		Name:             "Progressive Income Tax",
		Method:           payroll.TaxProgressive,
		MinTaxableAmount: decimal.NewFromInt(3000),
		Brackets: []payroll.TaxBracket{
			{From: decimal.Zero, To: decPtr(decimal.NewFromInt(5000)), Rate: decimal.NewFromInt(5)},
			{From: decimal.NewFromInt(5000), To: decPtr(decimal.NewFromInt(10000)), Rate: decimal.NewFromInt(10)},
			{From: decimal.NewFromInt(10000), Rate: decimal.NewFromInt(15)},
		},
		EffectiveFrom: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
}
