package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPeriodTransitions(t *testing.T) {
	tests := []struct {
		from    PeriodStatus
		to      PeriodStatus
		allowed bool
	}{
		{PeriodDraft, PeriodInProgress, true},
		{PeriodDraft, PeriodCalculated, false},
		{PeriodInProgress, PeriodCalculated, true},
		{PeriodInProgress, PeriodApproved, false},
		{PeriodCalculated, PeriodApproved, true},
		{PeriodCalculated, PeriodInProgress, true},
		{PeriodApproved, PeriodPaid, true},
		{PeriodApproved, PeriodInProgress, true},
		{PeriodPaid, PeriodClosed, true},
		{PeriodPaid, PeriodInProgress, false},
		{PeriodClosed, PeriodInProgress, false},
		{PeriodClosed, PeriodDraft, false},
	}
	for _, tt := range tests {
		p := Period{Status: tt.from}
		err := p.Transition(tt.to)
		if tt.allowed {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
			assert.Equal(t, tt.to, p.Status)
		} else {
			assert.ErrorIs(t, err, ErrInvalidPeriodTransition, "%s -> %s", tt.from, tt.to)
			assert.Equal(t, tt.from, p.Status)
		}
	}
}

func TestPeriodIsEditable(t *testing.T) {
	assert.True(t, Period{Status: PeriodDraft}.IsEditable())
	assert.True(t, Period{Status: PeriodInProgress}.IsEditable())
	assert.False(t, Period{Status: PeriodCalculated}.IsEditable())
	assert.False(t, Period{Status: PeriodPaid}.IsEditable())
	assert.False(t, Period{Status: PeriodClosed}.IsEditable())
}

func TestPeriodProgress(t *testing.T) {
	p := Period{TotalEmployees: 0, ProcessedEmployees: 0}
	assert.True(t, p.Progress().IsZero())

	p = Period{TotalEmployees: 3, ProcessedEmployees: 1}
	assert.True(t, p.Progress().Equal(decimal.NewFromFloat(33.33)), "got %s", p.Progress())

	p = Period{TotalEmployees: 8, ProcessedEmployees: 8}
	assert.True(t, p.Progress().Equal(decimal.NewFromInt(100)), "got %s", p.Progress())
}
