package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Probe pings the stores the API depends on. Nil stores are skipped.
type Probe struct {
	db    *sqlx.DB
	redis *redis.Client
}

func NewProbe(db *sqlx.DB, rdb *redis.Client) *Probe {
	return &Probe{db: db, redis: rdb}
}

// Check returns the failing stores keyed by name; an empty map means ready
func (p *Probe) Check(ctx context.Context) map[string]string {
	failures := map[string]string{}
	if p == nil {
		return failures
	}
	if p.db != nil {
		if err := p.db.PingContext(ctx); err != nil {
			failures["postgres"] = err.Error()
		}
	}
	if p.redis != nil {
		if err := p.redis.Ping(ctx).Err(); err != nil {
			failures["redis"] = err.Error()
		}
	}
	return failures
}
