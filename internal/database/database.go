package database

import (
	"context"
	"log"

	"go-docflow/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// MongodbDB wraps the docflow database handle
type MongodbDB struct {
	DB *mongo.Database
}

// ClientOptions builds the driver options for the configured deployment
func ClientOptions(cfg *config.Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName(cfg.AppId).
		SetConnectTimeout(cfg.MongoConnectTimeout).
		SetServerSelectionTimeout(cfg.MongoConnectTimeout)
}

// NewDatabase connects to MongoDB and disconnects when the app stops.
// The logger writes into this database, so it reports through the std logger.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*MongodbDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, ClientOptions(cfg))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Printf("Connected to MongoDB database %q", cfg.DBName)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Printf("Disconnecting from MongoDB database %q", cfg.DBName)
			return client.Disconnect(ctx)
		},
	})

	return &MongodbDB{DB: client.Database(cfg.DBName)}, nil
}
