// Package progress derives project progress from the state of its tasks.
//
// It is the only place the progress formula lives. Services call the Engine
// explicitly after every task mutation; nothing recomputes progress implicitly.
package progress

import (
	"math"
	"time"
)

// Counts is the task tally a project's progress is derived from.
type Counts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Pending returns the number of tasks not yet done.
func (c Counts) Pending() int {
	return c.Total - c.Completed
}

// Compute returns round(100 * completed / total), rounding half up, or 0 when
// there are no tasks. The result is clamped to [0,100].
func Compute(c Counts) int {
	if c.Total <= 0 || c.Completed <= 0 {
		return 0
	}
	if c.Completed >= c.Total {
		return 100
	}
	// Integer form of floor(100*completed/total + 0.5).
	return (200*c.Completed + c.Total) / (2 * c.Total)
}

const day = 24 * time.Hour

// DaysRemaining returns the calendar days between now and due, rounded up.
// The value turns negative once the due date has passed. Nil when there is no
// due date.
func DaysRemaining(due *time.Time, now time.Time) *int {
	if due == nil || due.IsZero() {
		return nil
	}
	days := int(math.Ceil(float64(due.Sub(now)) / float64(day)))
	return &days
}
