package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/rpggio/workflow/internal/domain/task"
	"github.com/rpggio/workflow/internal/repository"
)

// TaskRepository implements the task store for MongoDB. The document store has
// no foreign keys; callers check the project exists before Create.
type TaskRepository struct {
	coll *mongo.Collection
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{coll: db.database.Collection(tasksCollection)}
}

func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	doc := *t
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

func (r *TaskRepository) List(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Priority != "" {
		query["priority"] = string(filter.Priority)
	}
	if filter.ProjectID != "" {
		query["projectId"] = filter.ProjectID
	}
	switch {
	case filter.Assignee != "":
		query["assignee.name"] = filter.Assignee
	case filter.AssigneeContains != "":
		query["assignee.name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.AssigneeContains), Options: "i"}
	}

	sort := repository.ParseSort(filter.SortBy, filter.SortOrder, task.SortFields)
	cursor, err := r.coll.Find(ctx, query, findOptions(sort, filter.Limit, filter.Offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := []task.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	for i := range tasks {
		if tasks[i].Tags == nil {
			tasks[i].Tags = []string{}
		}
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	doc := *t
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete project tasks: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (r *TaskRepository) CountTasks(ctx context.Context, projectID string) (progress.Counts, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return progress.Counts{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	done, err := r.coll.CountDocuments(ctx, bson.M{"projectId": projectID, "status": string(task.StatusDone)})
	if err != nil {
		return progress.Counts{}, fmt.Errorf("failed to count done tasks: %w", err)
	}
	return progress.Counts{Total: int(total), Completed: int(done)}, nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context) (map[task.Status]int, error) {
	raw, err := groupCount(ctx, r.coll, "status")
	if err != nil {
		return nil, err
	}
	counts := make(map[task.Status]int, len(raw))
	for k, n := range raw {
		counts[task.Status(k)] = n
	}
	return counts, nil
}

func (r *TaskRepository) CountByPriority(ctx context.Context) (map[task.Priority]int, error) {
	raw, err := groupCount(ctx, r.coll, "priority")
	if err != nil {
		return nil, err
	}
	counts := make(map[task.Priority]int, len(raw))
	for k, n := range raw {
		counts[task.Priority(k)] = n
	}
	return counts, nil
}

func (r *TaskRepository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"dueDate": bson.M{"$lt": now},
		"status":  bson.M{"$ne": string(task.StatusDone)},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	return int(n), nil
}
