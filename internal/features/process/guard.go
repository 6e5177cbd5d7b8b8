package process

import (
	"context"
	"errors"
	"time"

	"go-docflow/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrInFlight = errors.New("submission already in flight")

// SubmissionGuard refuses a second submission from the same initiator while one is pending
type SubmissionGuard interface {
	Acquire(ctx context.Context, initiator string) (token string, err error)
	Release(ctx context.Context, initiator, token string) error
}

const guardKeyPrefix = "docflow:submit:"

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisSubmissionGuard struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSubmissionGuard(client *redis.Client, cfg *config.Config) SubmissionGuard {
	return &RedisSubmissionGuard{Client: client, TTL: cfg.SubmitGuardTTL}
}

func (g *RedisSubmissionGuard) Acquire(ctx context.Context, initiator string) (string, error) {
	token := uuid.NewString()
	ok, err := g.Client.SetNX(ctx, guardKeyPrefix+initiator, token, g.TTL).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInFlight
	}
	return token, nil
}

func (g *RedisSubmissionGuard) Release(ctx context.Context, initiator, token string) error {
	return releaseScript.Run(ctx, g.Client, []string{guardKeyPrefix + initiator}, token).Err()
}
