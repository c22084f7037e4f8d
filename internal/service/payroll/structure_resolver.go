package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/hrsuite/payroll-engine-go/internal/domain/payroll"
)

// StructureResolver picks the salary structure governing a payroll period.
type StructureResolver struct {
	structures payroll.StructureRepository
}

func NewStructureResolver(structures payroll.StructureRepository) *StructureResolver {
	return &StructureResolver{structures: structures}
}

// Resolve returns the active structure whose effective range overlaps
// [periodStart, periodEnd]. When several overlap, the one with the most
// recent EffectiveFrom wins.
func (r *StructureResolver) Resolve(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (payroll.SalaryStructure, error) {
	structures, err := r.structures.GetSalaryStructures(ctx, employeeID)
	if err != nil {
		return payroll.SalaryStructure{}, fmt.Errorf("failed to get salary structures: %w", err)
	}

	var best *payroll.SalaryStructure
	for i := range structures {
		s := structures[i]
		if !s.IsActive || !s.OverlapsPeriod(periodStart, periodEnd) {
			continue
		}
		if best == nil || s.EffectiveFrom.After(best.EffectiveFrom) {
			best = &structures[i]
		}
	}
	if best == nil {
		return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
	}
	return *best, nil
}
