package document

import (
	"context"
	"errors"

	"go-docflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("document not found")

type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, id string) (*Document, error)
	Exists(ctx context.Context, ids []string) (map[string]bool, error)
}

type DocumentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDocumentRepository(mongodb *database.MongodbDB) DocumentRepository {
	return &DocumentRepositoryImpl{
		Collection: mongodb.DB.Collection(CollectionName),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *Document) error {
	_, err := r.Collection.InsertOne(ctx, doc)
	return err
}

func (r *DocumentRepositoryImpl) FindByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		found[doc.ID] = true
	}
	return found, cursor.Err()
}
