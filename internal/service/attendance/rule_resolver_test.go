package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrsuite/payroll-engine-go/internal/domain/attendance"
	"github.com/hrsuite/payroll-engine-go/internal/domain/employee"
	"github.com/hrsuite/payroll-engine-go/internal/repository/memory"
)

func resolverEmployee() employee.Employee {
	return employee.Employee{
		ID:           testEmployeeID,
		DepartmentID: "dept-1",
		JobTitleID:   "title-1",
	}
}

func namedRule(id string, appliesToAll bool, departmentIDs ...string) attendance.Rule {
	return attendance.Rule{
		ID:            id,
		Name:          id,
		AppliesToAll:  appliesToAll,
		DepartmentIDs: departmentIDs,
		EffectiveFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
}

func TestResolveTargetedBeatsGeneral(t *testing.T) {
	rules := memory.NewRuleRepository()
	rules.Add(namedRule("rule-general", true))
	rules.Add(namedRule("rule-targeted", false, "dept-1"))
	resolver := NewRuleResolver(rules)

	got, err := resolver.Resolve(context.Background(), resolverEmployee(), testDay)
	require.NoError(t, err)
	assert.Equal(t, "rule-targeted", got.ID)
}

func TestResolveTieBreaksOnLowestID(t *testing.T) {
	rules := memory.NewRuleRepository()
	rules.Add(namedRule("rule-b", false, "dept-1"))
	rules.Add(namedRule("rule-a", false, "dept-1"))
	resolver := NewRuleResolver(rules)

	got, err := resolver.Resolve(context.Background(), resolverEmployee(), testDay)
	require.NoError(t, err)
	assert.Equal(t, "rule-a", got.ID)
}

func TestResolveFallsBackToGeneral(t *testing.T) {
	rules := memory.NewRuleRepository()
	rules.Add(namedRule("rule-general", true))
	rules.Add(namedRule("rule-other-dept", false, "dept-9"))
	resolver := NewRuleResolver(rules)

	got, err := resolver.Resolve(context.Background(), resolverEmployee(), testDay)
	require.NoError(t, err)
	assert.Equal(t, "rule-general", got.ID)
}

func TestResolveNoMatch(t *testing.T) {
	rules := memory.NewRuleRepository()
	rules.Add(namedRule("rule-other-dept", false, "dept-9"))
	resolver := NewRuleResolver(rules)

	_, err := resolver.Resolve(context.Background(), resolverEmployee(), testDay)
	assert.ErrorIs(t, err, attendance.ErrNoMatchingRule)
}

func TestResolveIgnoresExpiredRules(t *testing.T) {
	rules := memory.NewRuleRepository()
	expired := namedRule("rule-expired", true)
	until := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	expired.EffectiveTo = &until
	rules.Add(expired)
	resolver := NewRuleResolver(rules)

	_, err := resolver.Resolve(context.Background(), resolverEmployee(), testDay)
	assert.ErrorIs(t, err, attendance.ErrNoMatchingRule)
}
