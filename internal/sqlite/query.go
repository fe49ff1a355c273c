package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/workflow/internal/repository"
)

// sortColumns maps API sort fields to columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"dueDate":   "due_date",
	"progress":  "progress",
	"status":    "status",
	"priority":  "priority",
}

// where collects filter conditions and their arguments.
type where struct {
	conditions []string
	args       []any
}

func (w *where) add(condition string, arg any) {
	w.conditions = append(w.conditions, condition)
	w.args = append(w.args, arg)
}

func (w *where) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// orderAndPage renders ORDER BY, LIMIT and OFFSET. Insertion order breaks ties.
func orderAndPage(sort repository.Sort, limit, offset int, args []any) (string, []any) {
	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if sort.Descending {
		direction = "DESC"
	}
	clause := fmt.Sprintf(" ORDER BY %s %s, rowid %s", column, direction, direction)

	switch {
	case limit > 0:
		clause += " LIMIT ?"
		args = append(args, limit)
	case offset > 0:
		clause += " LIMIT -1"
	}
	if offset > 0 {
		clause += " OFFSET ?"
		args = append(args, offset)
	}
	return clause, args
}
