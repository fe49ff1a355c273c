package project

// SortFields are the project fields list queries can order by.
var SortFields = []string{"createdAt", "updatedAt", "title", "dueDate", "progress", "status"}

// ListOptions narrows a project listing. A zero Limit means no limit.
type ListOptions struct {
	Status    Status
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}
