package employee

import (
	"context"
	"time"
)

// EmployeeRepository defines data access methods for employees.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetEligibleForPeriod returns employees that are active, hired on or
	// before periodEnd, and not terminated before periodStart.
	GetEligibleForPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]Employee, error)
}
