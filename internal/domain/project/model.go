package project

import (
	"time"

	"github.com/rpggio/workflow/internal/domain/task"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on-hold"
)

// Statuses lists every project status.
var Statuses = []Status{StatusPlanning, StatusActive, StatusCompleted, StatusOnHold}

// Valid reports whether s is a known project status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// TeamMember is a person working on a project.
type TeamMember struct {
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// Project groups tasks and tracks how many of them are done.
type Project struct {
	ID          string       `json:"id" bson:"_id"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Status      Status       `json:"status" bson:"status"`
	Progress    int          `json:"progress" bson:"progress"`
	Team        []TeamMember `json:"team" bson:"team"`
	DueDate     *time.Time   `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// Detail is a project together with its tasks.
type Detail struct {
	Project            Project     `json:"project"`
	Tasks              []task.Task `json:"tasks"`
	TaskCount          int         `json:"taskCount"`
	CompletedTaskCount int         `json:"completedTaskCount"`
}

// Stats summarizes one project's tasks.
type Stats struct {
	TotalTasks     int    `json:"totalTasks"`
	CompletedTasks int    `json:"completedTasks"`
	PendingTasks   int    `json:"pendingTasks"`
	Progress       int    `json:"progress"`
	DaysRemaining  *int   `json:"daysRemaining"`
	Status         Status `json:"status"`
	TeamSize       int    `json:"teamSize"`
}
