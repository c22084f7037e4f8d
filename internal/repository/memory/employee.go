// Package memory provides mutex-guarded in-memory implementations of every
// repository interface the engine depends on. They back the demo binary, the
// scheduler and the test suites; a SQL-backed implementation can replace them
// without touching the services.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hrsuite/payroll-engine-go/internal/domain/employee"
)

type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]employee.Employee)}
}

func (r *EmployeeRepository) Add(e employee.Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[e.ID] = e
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// GetEligibleForPeriod returns eligible employees ordered by employee code
// so batch runs are deterministic.
func (r *EmployeeRepository) GetEligibleForPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if e.EligibleForPeriod(periodStart, periodEnd) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}
