package workflow

import (
	"context"
	"errors"
	"time"

	"go-docflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("workflow not found")

type WorkflowRepository interface {
	FindByDepartment(ctx context.Context, departmentID string) (*Workflow, error)
	FindByID(ctx context.Context, id string) (*Workflow, error)
	// Replace swaps the whole step list in a single document write and bumps the version
	Replace(ctx context.Context, departmentID string, steps []Step, updatedBy string) (*Workflow, error)
	EnsureIndexes(ctx context.Context) error
}

type WorkflowRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewWorkflowRepository(mongodb *database.MongodbDB) WorkflowRepository {
	return &WorkflowRepositoryImpl{
		Collection: mongodb.DB.Collection(CollectionName),
	}
}

func (r *WorkflowRepositoryImpl) FindByDepartment(ctx context.Context, departmentID string) (*Workflow, error) {
	var wf Workflow
	err := r.Collection.FindOne(ctx, bson.M{"department_id": departmentID}).Decode(&wf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepositoryImpl) FindByID(ctx context.Context, id string) (*Workflow, error) {
	var wf Workflow
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&wf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepositoryImpl) Replace(ctx context.Context, departmentID string, steps []Step, updatedBy string) (*Workflow, error) {
	filter := bson.M{"department_id": departmentID}
	update := bson.M{
		"$set": bson.M{
			"steps":      steps,
			"updated_by": updatedBy,
			"updated_at": time.Now().UTC(),
		},
		"$inc":         bson.M{"version": 1},
		"$setOnInsert": bson.M{"_id": IDFor(departmentID)},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var wf Workflow
	if err := r.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "department_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
