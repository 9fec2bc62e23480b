package app

import (
	"github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/config"
	"github.com/ghuser/itemstore/pkg/database"
	"github.com/ghuser/itemstore/pkg/events"
	"github.com/ghuser/itemstore/pkg/logger"
	"github.com/ghuser/itemstore/pkg/workflows"
)

// Application holds shared infrastructure for every service in a process.
// Pass it to each service's route or subscriber registration.
//
// Logger is trace-aware: use the *Context methods inside requests and
// trace_id, span_id and request_id are attached automatically.
//
//	app.Logger.InfoContext(ctx, "item cached", "item_id", id)
//
// TemporalClient is nil unless TEMPORAL_ENABLED is set.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient
}

// ItemCache returns the item read cache over a.Redis.
func (a *Application) ItemCache() *cache.ItemCache {
	ttl, fill := cache.DefaultItemTTL, cache.DefaultFillTTL
	if a.Config != nil {
		ttl, fill = a.Config.ItemCacheTTL, a.Config.ItemCacheFillTTL
	}
	return cache.NewItemCache(a.Redis, ttl).WithFillTTL(fill)
}
