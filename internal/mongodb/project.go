package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/repository"
)

// ProjectRepository implements the project store for MongoDB.
type ProjectRepository struct {
	coll *mongo.Collection
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{coll: db.database.Collection(projectsCollection)}
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	doc := *p
	if doc.Team == nil {
		doc.Team = []project.TeamMember{}
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	var p project.Project
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if p.Team == nil {
		p.Team = []project.TeamMember{}
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	sort := repository.ParseSort(opts.SortBy, opts.SortOrder, project.SortFields)
	cursor, err := r.coll.Find(ctx, filter, findOptions(sort, opts.Limit, opts.Offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := []project.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	for i := range projects {
		if projects[i].Team == nil {
			projects[i].Team = []project.TeamMember{}
		}
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	doc := *p
	if doc.Team == nil {
		doc.Team = []project.TeamMember{}
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return n > 0, nil
}

func (r *ProjectRepository) SetProgress(ctx context.Context, id string, value int) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"progress":  value,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to set progress: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[project.Status]int, error) {
	raw, err := groupCount(ctx, r.coll, "status")
	if err != nil {
		return nil, err
	}
	counts := make(map[project.Status]int, len(raw))
	for k, n := range raw {
		counts[project.Status(k)] = n
	}
	return counts, nil
}
