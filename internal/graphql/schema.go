// Package graphql exposes the project and task services as a GraphQL API.
package graphql

import (
	"strings"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/rpggio/workflow/internal/domain/dashboard"
	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
)

// Enum names use underscores where the stored values use hyphens. The enum
// values carry the domain types, so parsed arguments arrive already converted.
var (
	projectStatusEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "ProjectStatus",
		Values: graphql.EnumValueConfigMap{
			"planning":  &graphql.EnumValueConfig{Value: project.StatusPlanning},
			"active":    &graphql.EnumValueConfig{Value: project.StatusActive},
			"completed": &graphql.EnumValueConfig{Value: project.StatusCompleted},
			"on_hold":   &graphql.EnumValueConfig{Value: project.StatusOnHold},
		},
	})

	taskStatusEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "TaskStatus",
		Values: graphql.EnumValueConfigMap{
			"todo":        &graphql.EnumValueConfig{Value: task.StatusTodo},
			"in_progress": &graphql.EnumValueConfig{Value: task.StatusInProgress},
			"done":        &graphql.EnumValueConfig{Value: task.StatusDone},
		},
	})

	priorityEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "Priority",
		Values: graphql.EnumValueConfigMap{
			"low":    &graphql.EnumValueConfig{Value: task.PriorityLow},
			"medium": &graphql.EnumValueConfig{Value: task.PriorityMedium},
			"high":   &graphql.EnumValueConfig{Value: task.PriorityHigh},
		},
	})
)

// enumName converts a stored status to its GraphQL spelling.
func enumName(status string) string {
	return strings.ReplaceAll(status, "-", "_")
}

var teamMemberType = graphql.NewObject(graphql.ObjectConfig{
	Name: "TeamMember",
	Fields: graphql.Fields{
		"name":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"avatar": &graphql.Field{Type: graphql.String},
	},
})

var teamMemberInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "TeamMemberInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"avatar": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var statusCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "StatusCount",
	Fields: graphql.Fields{
		"status": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return enumName(p.Source.(dashboard.StatusCount).Status), nil
			},
		},
		"count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var priorityCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PriorityCount",
	Fields: graphql.Fields{
		"priority": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return string(p.Source.(dashboard.PriorityCount).Priority), nil
			},
		},
		"count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var dashboardStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DashboardStats",
	Fields: graphql.Fields{
		"totalProjects":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalTasks":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"completedTasks":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"activeProjects":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"overdueTasks":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"projectsByStatus": &graphql.Field{Type: nonNullList(statusCountType)},
		"tasksByStatus":    &graphql.Field{Type: nonNullList(statusCountType)},
		"tasksByPriority":  &graphql.Field{Type: nonNullList(priorityCountType)},
	},
})

func nonNullList(t graphql.Type) graphql.Type {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// Sources reach field resolvers either as values (list elements) or pointers.

func asProject(src any) *project.Project {
	switch p := src.(type) {
	case *project.Project:
		return p
	case project.Project:
		return &p
	}
	return nil
}

func asTask(src any) *task.Task {
	switch t := src.(type) {
	case *task.Task:
		return t
	case task.Task:
		return &t
	}
	return nil
}

// newSchema builds the schema around r. Project and Task refer to each other,
// so their fields are thunks.
func newSchema(r *resolver) (graphql.Schema, error) {
	var projectType, taskType *graphql.Object

	projectType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Project",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"description": &graphql.Field{Type: graphql.String},
				"status":      &graphql.Field{Type: graphql.NewNonNull(projectStatusEnum)},
				"progress":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"team":        &graphql.Field{Type: nonNullList(teamMemberType)},
				"dueDate": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return formatNullTime(asProject(p.Source).DueDate), nil
					},
				},
				"daysRemaining": &graphql.Field{
					Type: graphql.Int,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return progress.DaysRemaining(asProject(p.Source).DueDate, time.Now()), nil
					},
				},
				"taskCount":          &graphql.Field{Type: graphql.Int, Resolve: r.projectTaskCount},
				"completedTaskCount": &graphql.Field{Type: graphql.Int, Resolve: r.projectCompletedTaskCount},
				"tasks":              &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(taskType)), Resolve: r.projectTasks},
				"createdAt": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return formatTime(asProject(p.Source).CreatedAt), nil
					},
				},
				"updatedAt": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return formatTime(asProject(p.Source).UpdatedAt), nil
					},
				},
			}
		}),
	})

	taskType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"description": &graphql.Field{Type: graphql.String},
				"status":      &graphql.Field{Type: graphql.NewNonNull(taskStatusEnum)},
				"priority":    &graphql.Field{Type: graphql.NewNonNull(priorityEnum)},
				"assignee":    &graphql.Field{Type: graphql.NewNonNull(teamMemberType)},
				"projectId":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"project":     &graphql.Field{Type: projectType, Resolve: r.taskProject},
				"dueDate": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return formatNullTime(asTask(p.Source).DueDate), nil
					},
				},
				"daysRemaining": &graphql.Field{
					Type: graphql.Int,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return progress.DaysRemaining(asTask(p.Source).DueDate, time.Now()), nil
					},
				},
				"estimatedHours": &graphql.Field{
					Type: graphql.Float,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						if h := asTask(p.Source).EstimatedHours; h != nil {
							return *h, nil
						}
						return nil, nil
					},
				},
				"actualHours": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
				"tags":        &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
				"completionPercentage": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Int),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return task.CompletionPercentage(asTask(p.Source).Status), nil
					},
				},
				"createdAt": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return formatTime(asTask(p.Source).CreatedAt), nil
					},
				},
				"updatedAt": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return formatTime(asTask(p.Source).UpdatedAt), nil
					},
				},
			}
		}),
	})

	projectInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProjectInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":      &graphql.InputObjectFieldConfig{Type: projectStatusEnum},
			"progress":    &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"team":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(teamMemberInput))},
			"dueDate":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	projectUpdateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProjectUpdateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":      &graphql.InputObjectFieldConfig{Type: projectStatusEnum},
			"progress":    &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"team":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(teamMemberInput))},
			"dueDate":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	taskInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":         &graphql.InputObjectFieldConfig{Type: taskStatusEnum},
			"priority":       &graphql.InputObjectFieldConfig{Type: priorityEnum},
			"assignee":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(teamMemberInput)},
			"projectId":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"dueDate":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"estimatedHours": &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"actualHours":    &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"tags":           &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})

	taskUpdateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TaskUpdateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":         &graphql.InputObjectFieldConfig{Type: taskStatusEnum},
			"priority":       &graphql.InputObjectFieldConfig{Type: priorityEnum},
			"assignee":       &graphql.InputObjectFieldConfig{Type: teamMemberInput},
			"dueDate":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"estimatedHours": &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"actualHours":    &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"tags":           &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})

	id := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"projects": &graphql.Field{
				Type: nonNullList(projectType),
				Args: graphql.FieldConfigArgument{
					"status":    &graphql.ArgumentConfig{Type: projectStatusEnum},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
					"offset":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"sortBy":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "createdAt"},
					"sortOrder": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "desc"},
				},
				Resolve: r.listProjects,
			},
			"project": &graphql.Field{
				Type:    projectType,
				Args:    graphql.FieldConfigArgument{"id": id},
				Resolve: r.project,
			},
			"projectByStatus": &graphql.Field{
				Type: nonNullList(projectType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(projectStatusEnum)},
				},
				Resolve: r.projectByStatus,
			},
			"tasks": &graphql.Field{
				Type: nonNullList(taskType),
				Args: graphql.FieldConfigArgument{
					"projectId": &graphql.ArgumentConfig{Type: graphql.ID},
					"status":    &graphql.ArgumentConfig{Type: taskStatusEnum},
					"priority":  &graphql.ArgumentConfig{Type: priorityEnum},
					"assignee":  &graphql.ArgumentConfig{Type: graphql.String},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
					"offset":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"sortBy":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "createdAt"},
					"sortOrder": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "desc"},
				},
				Resolve: r.listTasks,
			},
			"task": &graphql.Field{
				Type:    taskType,
				Args:    graphql.FieldConfigArgument{"id": id},
				Resolve: r.task,
			},
			"tasksByProject": &graphql.Field{
				Type: nonNullList(taskType),
				Args: graphql.FieldConfigArgument{
					"projectId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.tasksByProject,
			},
			"tasksByAssignee": &graphql.Field{
				Type: nonNullList(taskType),
				Args: graphql.FieldConfigArgument{
					"assignee": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.tasksByAssignee,
			},
			"dashboardStats": &graphql.Field{
				Type:    graphql.NewNonNull(dashboardStatsType),
				Resolve: r.dashboardStats,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createProject": &graphql.Field{
				Type: graphql.NewNonNull(projectType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(projectInput)},
				},
				Resolve: r.createProject,
			},
			"updateProject": &graphql.Field{
				Type: graphql.NewNonNull(projectType),
				Args: graphql.FieldConfigArgument{
					"id":    id,
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(projectUpdateInput)},
				},
				Resolve: r.updateProject,
			},
			"deleteProject": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    graphql.FieldConfigArgument{"id": id},
				Resolve: r.deleteProject,
			},
			"createTask": &graphql.Field{
				Type: graphql.NewNonNull(taskType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(taskInput)},
				},
				Resolve: r.createTask,
			},
			"updateTask": &graphql.Field{
				Type: graphql.NewNonNull(taskType),
				Args: graphql.FieldConfigArgument{
					"id":    id,
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(taskUpdateInput)},
				},
				Resolve: r.updateTask,
			},
			"deleteTask": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    graphql.FieldConfigArgument{"id": id},
				Resolve: r.deleteTask,
			},
			"bulkUpdateTaskStatus": &graphql.Field{
				Type: nonNullList(taskType),
				Args: graphql.FieldConfigArgument{
					"taskIds": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
					"status":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(taskStatusEnum)},
				},
				Resolve: r.bulkUpdateTaskStatus,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
