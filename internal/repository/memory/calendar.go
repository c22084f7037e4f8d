package memory

import (
	"context"
	"sync"
	"time"
)

// Calendar answers holiday, weekend and leave questions from seeded data.
// Saturday and Sunday are weekend days unless reconfigured.
type Calendar struct {
	mu       sync.RWMutex
	holidays map[string]bool
	weekend  map[time.Weekday]bool
	leaves   map[string]bool
}

func NewCalendar() *Calendar {
	return &Calendar{
		holidays: make(map[string]bool),
		weekend: map[time.Weekday]bool{
			time.Saturday: true,
			time.Sunday:   true,
		},
		leaves: make(map[string]bool),
	}
}

func (c *Calendar) AddHoliday(date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holidays[dateKey(date)] = true
}

func (c *Calendar) SetWeekendDays(days ...time.Weekday) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weekend = make(map[time.Weekday]bool)
	for _, d := range days {
		c.weekend[d] = true
	}
}

func (c *Calendar) AddLeave(employeeID string, date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaves[employeeID+":"+dateKey(date)] = true
}

func (c *Calendar) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.holidays[dateKey(date)], nil
}

func (c *Calendar) IsWeekend(ctx context.Context, date time.Time) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.weekend[date.Weekday()], nil
}

func (c *Calendar) IsOnLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.leaves[employeeID+":"+dateKey(date)], nil
}
