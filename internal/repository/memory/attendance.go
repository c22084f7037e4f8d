package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
)

const dateKeyLayout = "2006-01-02"

func dateKey(t time.Time) string { return t.Format(dateKeyLayout) }

type PunchRepository struct {
	mu      sync.RWMutex
	punches map[string][]attendance.Punch
}

func NewPunchRepository() *PunchRepository {
	return &PunchRepository{punches: make(map[string][]attendance.Punch)}
}

func (r *PunchRepository) Add(p attendance.Punch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.punches[p.EmployeeID] = append(r.punches[p.EmployeeID], p)
}

// GetPunches returns punches in [from, to). Order is insertion order, not
// time order; callers fold without assuming either.
func (r *PunchRepository) GetPunches(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Punch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []attendance.Punch
	for _, p := range r.punches[employeeID] {
		if p.PunchTime.Before(from) || !p.PunchTime.Before(to) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type RuleRepository struct {
	mu    sync.RWMutex
	rules []attendance.Rule
}

func NewRuleRepository() *RuleRepository {
	return &RuleRepository{}
}

func (r *RuleRepository) Add(rule attendance.Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
}

func (r *RuleRepository) GetActiveRules(ctx context.Context, date time.Time) ([]attendance.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []attendance.Rule
	for _, rule := range r.rules {
		if rule.EffectiveOn(date) {
			out = append(out, rule)
		}
	}
	return out, nil
}

type DailyAttendanceRepository struct {
	mu   sync.RWMutex
	rows map[string]map[string]attendance.DailyAttendance
}

func NewDailyAttendanceRepository() *DailyAttendanceRepository {
	return &DailyAttendanceRepository{rows: make(map[string]map[string]attendance.DailyAttendance)}
}

func (r *DailyAttendanceRepository) SaveDailyAttendance(ctx context.Context, da attendance.DailyAttendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[da.EmployeeID] == nil {
		r.rows[da.EmployeeID] = make(map[string]attendance.DailyAttendance)
	}
	r.rows[da.EmployeeID][dateKey(da.Date)] = da
	return nil
}

func (r *DailyAttendanceRepository) GetDailyAttendance(ctx context.Context, employeeID string, date time.Time) (attendance.DailyAttendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	da, ok := r.rows[employeeID][dateKey(date)]
	if !ok {
		return attendance.DailyAttendance{}, attendance.ErrDailyAttendanceNotFound
	}
	return da, nil
}

func (r *DailyAttendanceRepository) ListForMonth(ctx context.Context, employeeID string, year, month int) ([]attendance.DailyAttendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []attendance.DailyAttendance
	for _, da := range r.rows[employeeID] {
		if da.Date.Year() == year && int(da.Date.Month()) == month {
			out = append(out, da)
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *DailyAttendanceRepository) ListForRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.DailyAttendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []attendance.DailyAttendance
	for _, da := range r.rows[employeeID] {
		if da.Date.Before(from) || da.Date.After(to) {
			continue
		}
		out = append(out, da)
	}
	sortByDate(out)
	return out, nil
}

func sortByDate(rows []attendance.DailyAttendance) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
}

type MonthlySummaryRepository struct {
	mu        sync.RWMutex
	summaries map[string]attendance.MonthlySummary
}

func NewMonthlySummaryRepository() *MonthlySummaryRepository {
	return &MonthlySummaryRepository{summaries: make(map[string]attendance.MonthlySummary)}
}

func summaryKey(employeeID string, year, month int) string {
	return employeeID + ":" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (r *MonthlySummaryRepository) SaveMonthlySummary(ctx context.Context, s attendance.MonthlySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[summaryKey(s.EmployeeID, s.Year, s.Month)] = s
	return nil
}

func (r *MonthlySummaryRepository) GetMonthlySummary(ctx context.Context, employeeID string, year, month int) (attendance.MonthlySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.summaries[summaryKey(employeeID, year, month)]
	if !ok {
		return attendance.MonthlySummary{}, attendance.ErrMonthlySummaryNotFound
	}
	return s, nil
}

type ExceptionRepository struct {
	mu         sync.RWMutex
	exceptions map[string][]attendance.Exception
}

func NewExceptionRepository() *ExceptionRepository {
	return &ExceptionRepository{exceptions: make(map[string][]attendance.Exception)}
}

func (r *ExceptionRepository) Add(e attendance.Exception) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := e.EmployeeID + ":" + dateKey(e.Date)
	r.exceptions[key] = append(r.exceptions[key], e)
}

func (r *ExceptionRepository) GetApprovedExceptions(ctx context.Context, employeeID string, date time.Time) ([]attendance.Exception, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []attendance.Exception
	for _, e := range r.exceptions[employeeID+":"+dateKey(date)] {
		if e.IsApproved {
			out = append(out, e)
		}
	}
	return out, nil
}
