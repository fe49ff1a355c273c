package task

import "time"

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every task status in workflow order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is a known task status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every task priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Assignee is the person responsible for a task.
type Assignee struct {
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// Task is a unit of work inside a project.
type Task struct {
	ID             string     `json:"id" bson:"_id"`
	Title          string     `json:"title" bson:"title"`
	Description    string     `json:"description,omitempty" bson:"description,omitempty"`
	Status         Status     `json:"status" bson:"status"`
	Priority       Priority   `json:"priority" bson:"priority"`
	Assignee       Assignee   `json:"assignee" bson:"assignee"`
	ProjectID      string     `json:"projectId" bson:"projectId"`
	DueDate        *time.Time `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty" bson:"estimatedHours,omitempty"`
	ActualHours    float64    `json:"actualHours" bson:"actualHours"`
	Tags           []string   `json:"tags" bson:"tags"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// CompletionPercentage is 100 for done tasks, 50 for tasks in progress and 0
// otherwise.
func CompletionPercentage(s Status) int {
	switch s {
	case StatusDone:
		return 100
	case StatusInProgress:
		return 50
	}
	return 0
}

// Stats summarizes every task in the store.
type Stats struct {
	TotalTasks        int `json:"totalTasks"`
	TodoTasks         int `json:"todoTasks"`
	InProgressTasks   int `json:"inProgressTasks"`
	CompletedTasks    int `json:"completedTasks"`
	HighPriorityTasks int `json:"highPriorityTasks"`
}
