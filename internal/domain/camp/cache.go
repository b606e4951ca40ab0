package camp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DetailTTL is how long a camp detail stays cached
const DetailTTL = 5 * time.Minute

// DetailCache caches camp detail payloads
type DetailCache interface {
	Get(ctx context.Context, id uuid.UUID) (*Detail, bool)
	Set(ctx context.Context, detail *Detail)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type redisDetailCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDetailCache returns a Redis-backed cache. A nil client gives a cache that never hits.
func NewRedisDetailCache(client *redis.Client) DetailCache {
	return &redisDetailCache{client: client, ttl: DetailTTL}
}

func detailKey(id uuid.UUID) string {
	return "camp:detail:" + id.String()
}

func (c *redisDetailCache) Get(ctx context.Context, id uuid.UUID) (*Detail, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, detailKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("camp_id", id.String()).Msg("camp cache read failed")
		}
		return nil, false
	}
	var d Detail
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false
	}
	return &d, true
}

func (c *redisDetailCache) Set(ctx context.Context, detail *Detail) {
	if c.client == nil || detail == nil || detail.Camp == nil {
		return
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, detailKey(detail.Camp.ID), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("camp_id", detail.Camp.ID.String()).Msg("camp cache write failed")
	}
}

func (c *redisDetailCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, detailKey(id)).Err(); err != nil {
		log.Warn().Err(err).Str("camp_id", id.String()).Msg("camp cache invalidate failed")
	}
}
