package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/hrsuite/payroll-engine-go/internal/domain/payroll"
	"github.com/hrsuite/payroll-engine-go/internal/pkg/money"
)

// ComputeTax applies a validated tax configuration to a taxable amount.
// Amounts at or below MinTaxableAmount are tax free; MaxTaxableAmount caps
// the base the schedule sees. The caller is responsible for running
// cfg.Validate() first.
func ComputeTax(cfg payroll.TaxConfiguration, taxable decimal.Decimal) decimal.Decimal {
	if taxable.LessThanOrEqual(cfg.MinTaxableAmount) {
		return decimal.Zero
	}
	base := taxable
	if cfg.MaxTaxableAmount != nil && base.GreaterThan(*cfg.MaxTaxableAmount) {
		base = *cfg.MaxTaxableAmount
	}

	switch cfg.Method {
	case payroll.TaxFlatRate:
		// Only the amount above the tax-free threshold is taxed, so pay does
		// not jump at the threshold itself.
		return money.Percent(base.Sub(cfg.MinTaxableAmount), cfg.Rate)
	case payroll.TaxMethodBracket:
		// The whole base is taxed at the rate of the bracket containing it.
		for _, b := range cfg.Brackets {
			if base.LessThan(b.From) {
				continue
			}
			if b.To == nil || base.LessThanOrEqual(*b.To) {
				return money.Percent(base, b.Rate)
			}
		}
		return decimal.Zero
	case payroll.TaxProgressive:
		// Each bracket taxes only the slice of the base falling inside it.
		total := decimal.Zero
		for _, b := range cfg.Brackets {
			if base.LessThanOrEqual(b.From) {
				break
			}
			upper := base
			if b.To != nil && upper.GreaterThan(*b.To) {
				upper = *b.To
			}
			total = total.Add(money.Percent(upper.Sub(b.From), b.Rate))
		}
		return money.Round(total)
	}
	return decimal.Zero
}
