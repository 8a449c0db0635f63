package logics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"escalas-server/configs"
	"escalas-server/internal/models"
	"escalas-server/internal/repositories"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rosterCacheKey = "roster:schedules"

// RosterCache keeps the full joined schedule list in Redis for a short TTL.
// Every roster mutation invalidates it, so clients refetch after mutating
// instead of trusting a local copy. Best-effort: a missing or failing Redis
// never breaks a read.
type RosterCache struct {
	TTL time.Duration
}

// NewRosterCache creates a RosterCache with the given TTL.
func NewRosterCache(ttl time.Duration) *RosterCache {
	return &RosterCache{TTL: ttl}
}

// Get loads the cached roster. The second return reports a hit.
func (rc *RosterCache) Get(ctx context.Context, schedules *[]models.Schedule) bool {
	if repositories.DBS.Redis == nil {
		return false
	}

	cached, err := repositories.DBS.Redis.Get(ctx, rosterCacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			configs.Logger.Warn("roster cache read failed", zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), schedules); err != nil {
		configs.Logger.Warn("roster cache payload invalid", zap.Error(err))
		return false
	}
	return true
}

// Set stores the roster.
func (rc *RosterCache) Set(ctx context.Context, schedules []models.Schedule) {
	if repositories.DBS.Redis == nil {
		return
	}

	payload, err := json.Marshal(schedules)
	if err != nil {
		configs.Logger.Warn("roster cache encode failed", zap.Error(err))
		return
	}

	if err := repositories.DBS.Redis.Set(ctx, rosterCacheKey, payload, rc.TTL).Err(); err != nil {
		configs.Logger.Warn("roster cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached roster.
func (rc *RosterCache) Invalidate(ctx context.Context) {
	if repositories.DBS.Redis == nil {
		return
	}

	if err := repositories.DBS.Redis.Del(ctx, rosterCacheKey).Err(); err != nil {
		configs.Logger.Warn("roster cache invalidation failed", zap.Error(err))
	}
}
