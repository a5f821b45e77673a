// Package cache holds the last-known snapshots of the upstream collections.
// A refresh is always a full replace; on failure the previous snapshot is
// retained and the caller decides how to surface the error.
package cache

import (
	"context"
	"fmt"
	"sync"

	"talanch-backoffice/internal/domain"
)

type DishLister interface {
	ListDishes(ctx context.Context) ([]domain.Dish, error)
}

type DishCache struct {
	mu       sync.RWMutex
	upstream DishLister
	snapshot []domain.Dish
	warm     bool
}

func NewDishCache(upstream DishLister) *DishCache {
	return &DishCache{upstream: upstream}
}

func (c *DishCache) Refresh(ctx context.Context) error {
	dishes, err := c.upstream.ListDishes(ctx)
	if err != nil {
		return fmt.Errorf("refresh dishes: %w", err)
	}

	c.mu.Lock()
	c.snapshot = dishes
	c.warm = true
	c.mu.Unlock()
	return nil
}

func (c *DishCache) Warm() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.warm
}

// Snapshot returns a copy; callers are free to re-sort it.
func (c *DishCache) Snapshot() []domain.Dish {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Dish, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

// Remove drops a dish after a confirmed delete, skipping the refetch.
func (c *DishCache) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.snapshot[:0]
	for _, d := range c.snapshot {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	c.snapshot = kept
}

// Patch applies a confirmed field change in place.
func (c *DishCache) Patch(id int, apply func(*domain.Dish)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.snapshot {
		if c.snapshot[i].ID == id {
			apply(&c.snapshot[i])
			return
		}
	}
}
