package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/rpggio/workflow/internal/domain/task"
	"github.com/rpggio/workflow/internal/repository"
)

// TaskRepository implements the task store for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, status, priority, assignee_name, assignee_avatar,
	project_id, due_date, estimated_hours, actual_hours, tags, created_at, updated_at`

// Create creates a new task. A missing project yields ErrForeignKeyViolation.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	tags, err := json.Marshal(tagsOrEmpty(t.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		t.Assignee.Name,
		t.Assignee.Avatar,
		t.ProjectID,
		formatNullTime(t.DueDate),
		nullFloat(t.EstimatedHours),
		t.ActualHours,
		string(tags),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// List returns tasks matching filter
func (r *TaskRepository) List(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	var w where
	if filter.Status != "" {
		w.add("status = ?", string(filter.Status))
	}
	if filter.Priority != "" {
		w.add("priority = ?", string(filter.Priority))
	}
	if filter.ProjectID != "" {
		w.add("project_id = ?", filter.ProjectID)
	}
	if filter.Assignee != "" {
		w.add("assignee_name = ?", filter.Assignee)
	}
	if filter.AssigneeContains != "" {
		w.add(`LOWER(assignee_name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(filter.AssigneeContains))+"%")
	}

	sort := repository.ParseSort(filter.SortBy, filter.SortOrder, task.SortFields)
	tail, args := orderAndPage(sort, filter.Limit, filter.Offset, w.args)
	query := `SELECT ` + taskColumns + ` FROM tasks` + w.String() + tail

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// Update replaces every mutable field of a task. The owning project never changes.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	tags, err := json.Marshal(tagsOrEmpty(t.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, assignee_name = ?, assignee_avatar = ?,
			due_date = ?, estimated_hours = ?, actual_hours = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		t.Assignee.Name,
		t.Assignee.Avatar,
		formatNullTime(t.DueDate),
		nullFloat(t.EstimatedHours),
		t.ActualHours,
		string(tags),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(result)
}

// DeleteByProject removes every task of a project and returns how many went
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete project tasks: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// CountTasks tallies a project's tasks for progress
func (r *TaskRepository) CountTasks(ctx context.Context, projectID string) (progress.Counts, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE project_id = ?
	`
	var counts progress.Counts
	err := r.db.QueryRowContext(ctx, query, string(task.StatusDone), projectID).Scan(&counts.Total, &counts.Completed)
	if err != nil {
		return progress.Counts{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	return counts, nil
}

// CountByStatus counts tasks per status
func (r *TaskRepository) CountByStatus(ctx context.Context) (map[task.Status]int, error) {
	counts := make(map[task.Status]int)
	err := r.groupCount(ctx, "status", func(key string, n int) {
		counts[task.Status(key)] = n
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountByPriority counts tasks per priority
func (r *TaskRepository) CountByPriority(ctx context.Context) (map[task.Priority]int, error) {
	counts := make(map[task.Priority]int)
	err := r.groupCount(ctx, "priority", func(key string, n int) {
		counts[task.Priority(key)] = n
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountOverdue counts tasks due before now that are not done
func (r *TaskRepository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE due_date IS NOT NULL AND due_date < ? AND status != ?`

	var n int
	if err := r.db.QueryRowContext(ctx, query, formatTime(now), string(task.StatusDone)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	return n, nil
}

// groupCount runs a GROUP BY count over column, which must be a trusted name.
func (r *TaskRepository) groupCount(ctx context.Context, column string, fn func(key string, n int)) error {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s, COUNT(*) FROM tasks GROUP BY %s`, column, column))
	if err != nil {
		return fmt.Errorf("failed to count tasks by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan task count: %w", err)
		}
		fn(key, n)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating task counts: %w", err)
	}
	return nil
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t                    task.Task
		due                  sql.NullString
		estimated            sql.NullFloat64
		tags                 string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.Assignee.Name,
		&t.Assignee.Avatar,
		&t.ProjectID,
		&due,
		&estimated,
		&t.ActualHours,
		&tags,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if estimated.Valid {
		hours := estimated.Float64
		t.EstimatedHours = &hours
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if t.DueDate, err = parseNullTime(due); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
