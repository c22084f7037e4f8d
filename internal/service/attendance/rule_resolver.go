package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/domain/employee"
)

// RuleResolver selects the single applicable attendance rule for an
// employee/date. Active rules are cached per date so a batch run hits the
// rule store once per day, not once per employee.
type RuleResolver struct {
	rules attendance.RuleRepository

	mu    sync.RWMutex
	cache map[string][]attendance.Rule
}

func NewRuleResolver(rules attendance.RuleRepository) *RuleResolver {
	return &RuleResolver{
		rules: rules,
		cache: make(map[string][]attendance.Rule),
	}
}

// Resolve returns the rule that governs the employee on date, or
// attendance.ErrNoMatchingRule. Precedence: targeted rules (department or
// job-title match) win over general rules; ties break on lowest rule ID so
// resolution stays deterministic.
func (r *RuleResolver) Resolve(ctx context.Context, emp employee.Employee, date time.Time) (attendance.Rule, error) {
	rules, err := r.activeRules(ctx, date)
	if err != nil {
		return attendance.Rule{}, fmt.Errorf("failed to load active rules: %w", err)
	}

	for _, rule := range rules {
		if rule.AppliesToAll {
			continue
		}
		if rule.MatchesEmployee(emp.DepartmentID, emp.JobTitleID) {
			return rule, nil
		}
	}

	for _, rule := range rules {
		if rule.AppliesToAll {
			return rule, nil
		}
	}

	return attendance.Rule{}, attendance.ErrNoMatchingRule
}

func (r *RuleResolver) activeRules(ctx context.Context, date time.Time) ([]attendance.Rule, error) {
	key := date.Format("2006-01-02")

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	all, err := r.rules.GetActiveRules(ctx, date)
	if err != nil {
		return nil, err
	}

	rules := make([]attendance.Rule, 0, len(all))
	for _, rule := range all {
		if rule.EffectiveOn(date) {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	r.mu.Lock()
	r.cache[key] = rules
	r.mu.Unlock()

	return rules, nil
}
