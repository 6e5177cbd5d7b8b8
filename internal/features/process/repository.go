package process

import (
	"context"
	"errors"
	"time"

	"go-docflow/internal/database"
	"go-docflow/internal/features/step"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("process not found")
	// ErrStale means the stored state no longer matches the state the caller read
	ErrStale = errors.New("process state changed")
)

type ProcessRepository interface {
	Create(ctx context.Context, p *Process) error
	FindByID(ctx context.Context, id string) (*Process, error)
	FindByDepartment(ctx context.Context, departmentID string) ([]Process, error)
	UpdateState(ctx context.Context, id string, from step.ProcessState, t Transition) error
	EnsureIndexes(ctx context.Context) error
}

type ProcessRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewProcessRepository(mongodb *database.MongodbDB) ProcessRepository {
	return &ProcessRepositoryImpl{
		Collection: mongodb.DB.Collection(CollectionName),
	}
}

func (r *ProcessRepositoryImpl) Create(ctx context.Context, p *Process) error {
	_, err := r.Collection.InsertOne(ctx, p)
	return err
}

func (r *ProcessRepositoryImpl) FindByID(ctx context.Context, id string) (*Process, error) {
	var p Process
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProcessRepositoryImpl) FindByDepartment(ctx context.Context, departmentID string) ([]Process, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"initiator_department": departmentID},
		bson.M{"connectors": departmentID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	processes := []Process{}
	if err := cursor.All(ctx, &processes); err != nil {
		return nil, err
	}
	return processes, nil
}

// UpdateState applies t only while the stored state still equals from
func (r *ProcessRepositoryImpl) UpdateState(ctx context.Context, id string, from step.ProcessState, t Transition) error {
	filter := bson.M{
		"_id":         id,
		"state.phase": from.Phase,
		"state.step":  from.Step,
	}
	update := bson.M{
		"$set":  bson.M{"state": t.To, "updated_at": time.Now().UTC()},
		"$push": bson.M{"history": t},
	}

	res, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStale
	}
	return nil
}

func (r *ProcessRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "initiator_department", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "connectors", Value: 1}}},
	})
	return err
}
