package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hrsuite/payroll-engine-go/internal/domain/payroll"
)

type StructureRepository struct {
	mu         sync.RWMutex
	structures map[string][]payroll.SalaryStructure
}

func NewStructureRepository() *StructureRepository {
	return &StructureRepository{structures: make(map[string][]payroll.SalaryStructure)}
}

func (r *StructureRepository) Add(s payroll.SalaryStructure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.structures[s.EmployeeID] = append(r.structures[s.EmployeeID], s)
}

func (r *StructureRepository) GetSalaryStructures(ctx context.Context, employeeID string) ([]payroll.SalaryStructure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]payroll.SalaryStructure, len(r.structures[employeeID]))
	copy(out, r.structures[employeeID])
	return out, nil
}

type PeriodRepository struct {
	mu      sync.RWMutex
	periods map[string]payroll.Period
}

func NewPeriodRepository() *PeriodRepository {
	return &PeriodRepository{periods: make(map[string]payroll.Period)}
}

func (r *PeriodRepository) GetPeriod(ctx context.Context, id string) (payroll.Period, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.periods[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}

func (r *PeriodRepository) SavePeriod(ctx context.Context, p payroll.Period) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.periods[p.ID] = p
	return nil
}

// UpdatePeriodTotals writes the aggregate columns without disturbing any
// status change saved concurrently.
func (r *PeriodRepository) UpdatePeriodTotals(ctx context.Context, p payroll.Period) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.periods[p.ID]
	if !ok {
		return payroll.ErrPeriodNotFound
	}
	current.TotalGrossSalary = p.TotalGrossSalary
	current.TotalDeductions = p.TotalDeductions
	current.TotalNetSalary = p.TotalNetSalary
	current.ProcessedEmployees = p.ProcessedEmployees
	r.periods[p.ID] = current
	return nil
}

type PayslipRepository struct {
	mu       sync.Mutex
	payslips map[string]map[string]payroll.Payslip
	counters map[string]int
}

func NewPayslipRepository() *PayslipRepository {
	return &PayslipRepository{
		payslips: make(map[string]map[string]payroll.Payslip),
		counters: make(map[string]int),
	}
}

func (r *PayslipRepository) SavePayslip(ctx context.Context, p payroll.Payslip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.payslips[p.PayrollPeriodID] == nil {
		r.payslips[p.PayrollPeriodID] = make(map[string]payroll.Payslip)
	}
	r.payslips[p.PayrollPeriodID][p.EmployeeID] = p
	return nil
}

func (r *PayslipRepository) GetPayslip(ctx context.Context, employeeID, periodID string) (payroll.Payslip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payslips[periodID][employeeID]
	if !ok {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return p, nil
}

func (r *PayslipRepository) ListByPeriod(ctx context.Context, periodID string) ([]payroll.Payslip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]payroll.Payslip, 0, len(r.payslips[periodID]))
	for _, p := range r.payslips[periodID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// NextPayslipNumber allocates PS<yyyy><mm><seq> with a per-month sequence.
func (r *PayslipRepository) NextPayslipNumber(ctx context.Context, year int, month time.Month) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%04d%02d", year, month)
	r.counters[key]++
	return fmt.Sprintf("PS%s%04d", key, r.counters[key]), nil
}

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string][]payroll.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{transactions: make(map[string][]payroll.Transaction)}
}

func (r *TransactionRepository) Add(t payroll.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := t.EmployeeID + ":" + t.PayrollPeriodID
	r.transactions[key] = append(r.transactions[key], t)
}

func (r *TransactionRepository) GetApprovedTransactions(ctx context.Context, employeeID, periodID string) ([]payroll.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []payroll.Transaction
	for _, t := range r.transactions[employeeID+":"+periodID] {
		if t.IsApproved {
			out = append(out, t)
		}
	}
	return out, nil
}

type TaxRepository struct {
	mu      sync.RWMutex
	configs []payroll.TaxConfiguration
}

func NewTaxRepository() *TaxRepository {
	return &TaxRepository{}
}

func (r *TaxRepository) Add(cfg payroll.TaxConfiguration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs = append(r.configs, cfg)
}

// GetTaxConfig returns the active configuration effective on date. When
// several overlap, the most recent EffectiveFrom wins.
func (r *TaxRepository) GetTaxConfig(ctx context.Context, date time.Time) (payroll.TaxConfiguration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *payroll.TaxConfiguration
	for i := range r.configs {
		cfg := r.configs[i]
		if !cfg.IsActive || cfg.EffectiveFrom.After(date) {
			continue
		}
		if cfg.EffectiveTo != nil && cfg.EffectiveTo.Before(date) {
			continue
		}
		if best == nil || cfg.EffectiveFrom.After(best.EffectiveFrom) {
			best = &r.configs[i]
		}
	}
	if best == nil {
		return payroll.TaxConfiguration{}, payroll.ErrTaxConfigurationNotFound
	}
	return *best, nil
}
