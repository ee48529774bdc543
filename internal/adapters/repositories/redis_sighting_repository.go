package repositories

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"sighting-intake-service/internal/domain"
	"sighting-intake-service/internal/platform/obs"
)

const backendRedis = "redis"

// Redis-backed implementation of the SightingRepository port. Each record is
// one JSON value RPUSHed onto a single list, so list order is insertion order.
type RedisSightingRepository struct {
	Client *redis.Client
	Key    string
}

func NewRedisSightingRepository(client *redis.Client, key string) *RedisSightingRepository {
	return &RedisSightingRepository{Client: client, Key: key}
}

func (r *RedisSightingRepository) Append(ctx context.Context, s domain.Sighting) (_ domain.Sighting, err error) {
	defer obs.Time(ctx, backendRedis, "append")(&err)

	val, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return domain.Sighting{}, fmt.Errorf("redis append: %w: encode record: %w", domain.ErrStorageWrite, err)
	}

	if err := r.Client.RPush(ctx, r.Key, val).Err(); err != nil {
		return domain.Sighting{}, fmt.Errorf("redis append: %w: rpush %q: %w", domain.ErrStorageWrite, r.Key, err)
	}

	return s, nil
}

func (r *RedisSightingRepository) List(ctx context.Context) (_ []domain.Sighting, err error) {
	defer obs.Time(ctx, backendRedis, "list")(&err)

	vals, err := r.Client.LRange(ctx, r.Key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w: lrange %q: %w", domain.ErrStorageRead, r.Key, err)
	}

	out := make([]domain.Sighting, 0, len(vals))
	for i, v := range vals {
		var s domain.Sighting
		if err := json.Unmarshal([]byte(v), &s); err != nil {
			return nil, fmt.Errorf("redis list: %w: element %d: %w", domain.ErrStorageParse, i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
