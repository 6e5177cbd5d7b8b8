package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-docflow/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// NewRedis connects to Redis and closes the client when the app stops
func NewRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.Println("Connected to Redis!")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
