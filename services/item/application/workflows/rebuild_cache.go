// Package workflows holds the Temporal workflows of the item context.
package workflows

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	pkgcache "github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/services/item/domain/models"
)

// RebuildCacheWorkflowID is the fixed id of the boot-time rebuild run, so
// concurrent worker starts share one execution.
const RebuildCacheWorkflowID = "item-cache-rebuild"

// ItemLister returns every item.
type ItemLister interface {
	List(ctx context.Context) ([]*models.Item, error)
}

// CacheSetter writes one cache entry.
type CacheSetter interface {
	Set(ctx context.Context, item *pkgcache.CachedItem) error
}

// Activities are the side-effecting steps of RebuildItemCacheWorkflow.
type Activities struct {
	Items ItemLister
	Cache CacheSetter
}

// WarmItemCache writes every stored item to the cache and returns how many
// were written. It is safe to retry from the start.
func (a *Activities) WarmItemCache(ctx context.Context) (int, error) {
	items, err := a.Items.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list items: %w", err)
	}
	for i, item := range items {
		if err := a.Cache.Set(ctx, &pkgcache.CachedItem{ID: item.ID, Name: item.Name.String()}); err != nil {
			return i, fmt.Errorf("cache item %d: %w", item.ID, err)
		}
		if i%100 == 0 {
			activity.RecordHeartbeat(ctx, i)
		}
	}
	return len(items), nil
}

// RebuildItemCacheWorkflow repopulates the read cache from the database.
func RebuildItemCacheWorkflow(ctx workflow.Context) (int, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	})

	var a *Activities
	var count int
	if err := workflow.ExecuteActivity(ctx, a.WarmItemCache).Get(ctx, &count); err != nil {
		return 0, err
	}
	workflow.GetLogger(ctx).Info("item cache rebuilt", "items", count)
	return count, nil
}

// Register adds the workflow and its activities to w.
func Register(w worker.Registry, acts *Activities) {
	w.RegisterWorkflow(RebuildItemCacheWorkflow)
	w.RegisterActivity(acts)
}

// StartRebuild starts RebuildItemCacheWorkflow on taskQueue, or attaches to
// the run already in progress.
func StartRebuild(ctx context.Context, c client.Client, taskQueue string) (client.WorkflowRun, error) {
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        RebuildCacheWorkflowID,
		TaskQueue: taskQueue,
	}, RebuildItemCacheWorkflow)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", RebuildCacheWorkflowID, err)
	}
	return run, nil
}
