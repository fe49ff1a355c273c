package validation

// Schemas used by the services. Create schemas require the identifying fields;
// update schemas accept any subset of the same fields.
var (
	ProjectCreate = mustSchema("project_create.json", projectFields)
	ProjectUpdate = mustSchema("project_update.json", projectFields)
	TaskCreate    = mustSchema("task_create.json", taskFields)
	TaskUpdate    = mustSchema("task_update.json", without(taskFields, "/projectId"))
)

var projectFields = []Field{
	{
		Path:     "/title",
		Label:    "Title",
		Required: true,
		Messages: map[string]string{
			"required":  "Title is required",
			"minLength": "Title is required",
			"maxLength": "Title cannot be more than 100 characters",
			"type":      "Title must be a string",
		},
	},
	{
		Path:  "/description",
		Label: "Description",
		Messages: map[string]string{
			"maxLength": "Description cannot be more than 500 characters",
			"type":      "Description must be a string",
		},
	},
	{
		Path:  "/status",
		Label: "Status",
		Messages: map[string]string{
			"enum": "Status must be planning, active, completed, or on-hold",
			"type": "Status must be planning, active, completed, or on-hold",
		},
	},
	{
		Path:  "/progress",
		Label: "Progress",
		Messages: map[string]string{
			"minimum": "Progress cannot be less than 0",
			"maximum": "Progress cannot be more than 100",
			"type":    "Progress must be a whole number",
		},
	},
	{
		Path:  "/team",
		Label: "Team",
		Messages: map[string]string{
			"type": "Team must be a list of members",
		},
	},
	{
		Path:  "/team/*",
		Label: "Team member",
		Messages: map[string]string{
			"type": "Team member must be an object",
		},
	},
	{
		Path:     "/team/*/name",
		Label:    "Team member name",
		Required: true,
		Messages: map[string]string{
			"required":  "Team member name is required",
			"minLength": "Team member name is required",
			"type":      "Team member name must be a string",
		},
	},
	{Path: "/team/*/avatar", Label: "Team member avatar"},
	{
		Path:   "/dueDate",
		Label:  "Due date",
		Future: true,
		Messages: map[string]string{
			"type":   "Due date must be a valid date",
			"date":   "Due date must be a valid date",
			"future": "Due date must be in the future",
		},
	},
}

var taskFields = []Field{
	{
		Path:     "/title",
		Label:    "Task title",
		Required: true,
		Messages: map[string]string{
			"required":  "Task title is required",
			"minLength": "Task title is required",
			"maxLength": "Title cannot be more than 100 characters",
			"type":      "Task title must be a string",
		},
	},
	{
		Path:  "/description",
		Label: "Description",
		Messages: map[string]string{
			"maxLength": "Description cannot be more than 500 characters",
			"type":      "Description must be a string",
		},
	},
	{
		Path:  "/status",
		Label: "Status",
		Messages: map[string]string{
			"enum": "Status must be todo, in-progress, or done",
			"type": "Status must be todo, in-progress, or done",
		},
	},
	{
		Path:  "/priority",
		Label: "Priority",
		Messages: map[string]string{
			"enum": "Priority must be low, medium, or high",
			"type": "Priority must be low, medium, or high",
		},
	},
	{
		Path:     "/assignee",
		Label:    "Assignee",
		Required: true,
		Messages: map[string]string{
			"type": "Assignee must be an object",
		},
	},
	{
		Path:     "/assignee/name",
		Label:    "Assignee name",
		Required: true,
		Messages: map[string]string{
			"required":  "Assignee name is required",
			"minLength": "Assignee name is required",
			"type":      "Assignee name must be a string",
		},
	},
	{Path: "/assignee/avatar", Label: "Assignee avatar"},
	{
		Path:     "/projectId",
		Label:    "Project ID",
		Required: true,
		Messages: map[string]string{
			"required":  "Project ID is required",
			"minLength": "Project ID is required",
			"type":      "Project ID must be a string",
		},
	},
	{
		Path:   "/dueDate",
		Label:  "Due date",
		Future: true,
		Messages: map[string]string{
			"type":   "Due date must be a valid date",
			"date":   "Due date must be a valid date",
			"future": "Due date must be in the future",
		},
	},
	{
		Path:  "/estimatedHours",
		Label: "Estimated hours",
		Messages: map[string]string{
			"minimum": "Estimated hours cannot be negative",
			"type":    "Estimated hours must be a number",
		},
	},
	{
		Path:  "/actualHours",
		Label: "Actual hours",
		Messages: map[string]string{
			"minimum": "Actual hours cannot be negative",
			"type":    "Actual hours must be a number",
		},
	},
	{
		Path:  "/tags",
		Label: "Tags",
		Messages: map[string]string{
			"type": "Tags must be a list of strings",
		},
	},
	{
		Path:  "/tags/*",
		Label: "Tag",
		Messages: map[string]string{
			"type": "Tags must be a list of strings",
		},
	},
}

func without(fields []Field, path string) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Path != path {
			out = append(out, f)
		}
	}
	return out
}
