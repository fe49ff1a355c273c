package task

// SortFields are the task fields list queries can order by.
var SortFields = []string{"createdAt", "updatedAt", "title", "dueDate", "status", "priority"}

// Filter narrows a task listing. Zero values match everything; a zero Limit
// means no limit.
type Filter struct {
	Status    Status
	Priority  Priority
	ProjectID string
	// Assignee matches the assignee name exactly.
	Assignee string
	// AssigneeContains matches a case-insensitive substring of the assignee name.
	AssigneeContains string
	Limit            int
	Offset           int
	SortBy           string
	SortOrder        string
}
