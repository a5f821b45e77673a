package cache

import (
	"sync"

	"talanch-backoffice/internal/domain"
)

// OrderCache keeps the last page of orders fetched for a screen, together
// with the query that produced it. Unlike dishes and menus it is filled by
// the service on every listing; its job is to absorb the optimistic status
// flips between refetches.
type OrderCache struct {
	mu       sync.RWMutex
	query    domain.OrderQuery
	snapshot []domain.Order
}

func NewOrderCache() *OrderCache {
	return &OrderCache{}
}

func (c *OrderCache) Replace(orders []domain.Order, q domain.OrderQuery) {
	c.mu.Lock()
	c.snapshot = orders
	c.query = q
	c.mu.Unlock()
}

func (c *OrderCache) Snapshot() ([]domain.Order, domain.OrderQuery) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Order, len(c.snapshot))
	copy(out, c.snapshot)
	return out, c.query
}

// Invalidate drops the snapshot so the next listing refetches.
func (c *OrderCache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.query = domain.OrderQuery{}
	c.mu.Unlock()
}

// SetStatus flips one flag after the upstream confirmed it.
func (c *OrderCache) SetStatus(orderID int, paid, served *bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.snapshot {
		if c.snapshot[i].ID != orderID {
			continue
		}
		if paid != nil {
			c.snapshot[i].Paid = *paid
		}
		if served != nil {
			c.snapshot[i].Served = *served
		}
		return
	}
}
