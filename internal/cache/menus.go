package cache

import (
	"context"
	"fmt"
	"sync"

	"talanch-backoffice/internal/domain"
)

type MenuLister interface {
	ListMenus(ctx context.Context) ([]domain.Menu, error)
}

type MenuCache struct {
	mu       sync.RWMutex
	upstream MenuLister
	snapshot []domain.Menu
	warm     bool
}

func NewMenuCache(upstream MenuLister) *MenuCache {
	return &MenuCache{upstream: upstream}
}

func (c *MenuCache) Refresh(ctx context.Context) error {
	menus, err := c.upstream.ListMenus(ctx)
	if err != nil {
		return fmt.Errorf("refresh menus: %w", err)
	}

	c.mu.Lock()
	c.snapshot = menus
	c.warm = true
	c.mu.Unlock()
	return nil
}

func (c *MenuCache) Warm() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.warm
}

func (c *MenuCache) Snapshot() []domain.Menu {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Menu, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

func (c *MenuCache) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.snapshot[:0]
	for _, m := range c.snapshot {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	c.snapshot = kept
}

func (c *MenuCache) Patch(id int, apply func(*domain.Menu)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.snapshot {
		if c.snapshot[i].ID == id {
			apply(&c.snapshot[i])
			return
		}
	}
}
