package logs

import (
	"context"
	"time"

	common_models "go-docflow/internal/common/models"
	"go-docflow/internal/database"
	"go-docflow/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LogRepository interface {
	Find(ctx context.Context, filter Filter) ([]common_models.Log, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type LogRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewLogRepository(mongodb *database.MongodbDB) LogRepository {
	return &LogRepositoryImpl{
		Collection: mongodb.DB.Collection(logger.LogsCollection),
	}
}

func (r *LogRepositoryImpl) Find(ctx context.Context, filter Filter) ([]common_models.Log, error) {
	query := bson.M{}
	if filter.Level != "" {
		query["level"] = filter.Level
	}
	if filter.Username != "" {
		query["username"] = filter.Username
	}
	if filter.ProcessID != "" {
		query["process_id"] = filter.ProcessID
	}
	if filter.From != nil || filter.To != nil {
		window := bson.M{}
		if filter.From != nil {
			window["$gte"] = *filter.From
		}
		if filter.To != nil {
			window["$lte"] = *filter.To
		}
		query["created_on_utc"] = window
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_on_utc", Value: -1}}).
		SetLimit(int64(filter.Limit))

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []common_models.Log{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *LogRepositoryImpl) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{"created_on_utc": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
