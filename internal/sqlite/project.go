package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/repository"
)

// ProjectRepository implements the project store for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, title, description, status, progress, team, due_date, created_at, updated_at`

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	team, err := json.Marshal(teamOrEmpty(p.Team))
	if err != nil {
		return fmt.Errorf("failed to encode team: %w", err)
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		string(p.Status),
		p.Progress,
		string(team),
		formatNullTime(p.DueDate),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// List returns projects matching opts
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	var w where
	if opts.Status != "" {
		w.add("status = ?", string(opts.Status))
	}

	sort := repository.ParseSort(opts.SortBy, opts.SortOrder, project.SortFields)
	tail, args := orderAndPage(sort, opts.Limit, opts.Offset, w.args)
	query := `SELECT ` + projectColumns + ` FROM projects` + w.String() + tail

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// Update replaces every mutable field of a project
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	team, err := json.Marshal(teamOrEmpty(p.Team))
	if err != nil {
		return fmt.Errorf("failed to encode team: %w", err)
	}

	query := `
		UPDATE projects
		SET title = ?, description = ?, status = ?, progress = ?, team = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		p.Title,
		p.Description,
		string(p.Status),
		p.Progress,
		string(team),
		formatNullTime(p.DueDate),
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a project. Its tasks must be removed first.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(result)
}

// Exists reports whether a project with id exists
func (r *ProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return exists, nil
}

// SetProgress stores a recomputed progress value and touches updated_at
func (r *ProjectRepository) SetProgress(ctx context.Context, id string, value int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE projects SET progress = ?, updated_at = ? WHERE id = ?`,
		value, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to set progress: %w", err)
	}
	return requireAffected(result)
}

// CountByStatus counts projects per status
func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[project.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	defer rows.Close()

	counts := make(map[project.Status]int)
	for rows.Next() {
		var status project.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan project count: %w", err)
		}
		counts[status] = n
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project counts: %w", err)
	}
	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*project.Project, error) {
	var (
		p                    project.Project
		team                 string
		due                  sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Status,
		&p.Progress,
		&team,
		&due,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(team), &p.Team); err != nil {
		return nil, fmt.Errorf("failed to decode team: %w", err)
	}
	if p.DueDate, err = parseNullTime(due); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func teamOrEmpty(team []project.TeamMember) []project.TeamMember {
	if team == nil {
		return []project.TeamMember{}
	}
	return team
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
