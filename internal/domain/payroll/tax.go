package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TaxMethod enum
type TaxMethod string

const (
	TaxFlatRate      TaxMethod = "flat_rate"
	TaxProgressive   TaxMethod = "progressive"
	TaxMethodBracket TaxMethod = "bracket"
)

// TaxBracket is one range of a bracket or progressive schedule. To == nil
// means unbounded.
type TaxBracket struct {
	From decimal.Decimal
	To   *decimal.Decimal
	Rate decimal.Decimal
}

// TaxConfiguration drives statutory tax for a date range. A misconfigured
// schedule is corrupted configuration and must abort the whole period run.
type TaxConfiguration struct {
	ID   string
	Name string

	Method           TaxMethod
	Rate             decimal.Decimal
	MinTaxableAmount decimal.Decimal
	MaxTaxableAmount *decimal.Decimal
	Brackets         []TaxBracket

	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	IsActive      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the configuration for internal consistency. Bracket and
// progressive schedules must be non-empty, strictly ordered by From, with
// each bounded bracket ending after it starts and no gaps between ranges.
func (t TaxConfiguration) Validate() error {
	switch t.Method {
	case TaxFlatRate:
		if t.Rate.IsNegative() {
			return fmt.Errorf("%w: negative flat rate %s", ErrInvalidTaxConfiguration, t.Rate)
		}
		return nil
	case TaxProgressive, TaxMethodBracket:
		if len(t.Brackets) == 0 {
			return fmt.Errorf("%w: %s schedule has no brackets", ErrInvalidTaxConfiguration, t.Method)
		}
		for i, b := range t.Brackets {
			if b.Rate.IsNegative() {
				return fmt.Errorf("%w: bracket %d has negative rate", ErrInvalidTaxConfiguration, i)
			}
			if b.To != nil && !b.To.GreaterThan(b.From) {
				return fmt.Errorf("%w: bracket %d ends at or before its start", ErrInvalidTaxConfiguration, i)
			}
			if i == 0 {
				continue
			}
			prev := t.Brackets[i-1]
			if prev.To == nil {
				return fmt.Errorf("%w: unbounded bracket %d is not last", ErrInvalidTaxConfiguration, i-1)
			}
			if !b.From.Equal(*prev.To) {
				return fmt.Errorf("%w: bracket %d does not start where bracket %d ends", ErrInvalidTaxConfiguration, i, i-1)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidTaxConfiguration, t.Method)
	}
}
