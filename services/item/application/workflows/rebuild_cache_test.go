package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.temporal.io/sdk/testsuite"

	pkgcache "github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/services/item/domain/models"
	"github.com/ghuser/itemstore/services/item/infrastructure/persistence/memory"
)

type mapCache struct {
	entries map[int64]string
	err     error
	calls   int
}

func (c *mapCache) Set(_ context.Context, item *pkgcache.CachedItem) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	c.entries[item.ID] = item.Name
	return nil
}

func seed(t *testing.T, names ...string) *memory.ItemRepository {
	t.Helper()
	repo := memory.NewItemRepository()
	for _, n := range names {
		if err := repo.Save(context.Background(), models.NewItem(models.ItemName(n))); err != nil {
			t.Fatal(err)
		}
	}
	return repo
}

func TestWarmItemCache_Activity(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()

	c := &mapCache{entries: map[int64]string{}}
	acts := &Activities{Items: seed(t, "a", "b"), Cache: c}
	env.RegisterActivity(acts)

	val, err := env.ExecuteActivity(acts.WarmItemCache)
	if err != nil {
		t.Fatalf("ExecuteActivity: %v", err)
	}
	var n int
	if err := val.Get(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 items, got %d", n)
	}
	if diff := cmp.Diff(map[int64]string{1: "a", 2: "b"}, c.entries); diff != "" {
		t.Errorf("cache mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuildItemCacheWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	c := &mapCache{entries: map[int64]string{}}
	env.RegisterActivity(&Activities{Items: seed(t, "Widget"), Cache: c})

	env.ExecuteWorkflow(RebuildItemCacheWorkflow)

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}
	var n int
	if err := env.GetWorkflowResult(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 || c.entries[1] != "Widget" {
		t.Fatalf("unexpected result %d, cache %v", n, c.entries)
	}
}

func TestRebuildItemCacheWorkflow_RetriesThenFails(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	c := &mapCache{entries: map[int64]string{}, err: errors.New("redis down")}
	env.RegisterActivity(&Activities{Items: seed(t, "Widget"), Cache: c})

	env.ExecuteWorkflow(RebuildItemCacheWorkflow)

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if env.GetWorkflowError() == nil {
		t.Fatal("expected workflow error")
	}
	if c.calls != 3 {
		t.Fatalf("expected 3 activity attempts, got %d", c.calls)
	}
}
