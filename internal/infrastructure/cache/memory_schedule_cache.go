package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bibbank/amortization/internal/domain/model"
)

type memoryItem struct {
	schedule  []model.ScheduleEntry
	expiresAt time.Time
}

// MemoryScheduleCache is a process-local schedule cache used when Redis is
// not configured.
type MemoryScheduleCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryScheduleCache creates an empty cache. A zero ttl never expires.
func NewMemoryScheduleCache(ttl time.Duration) *MemoryScheduleCache {
	return &MemoryScheduleCache{
		items: make(map[string]memoryItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *MemoryScheduleCache) Get(_ context.Context, loanID string) ([]model.ScheduleEntry, bool, error) {
	c.mu.RLock()
	item, ok := c.items[loanID]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && c.now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, loanID)
		c.mu.Unlock()
		return nil, false, nil
	}
	return slices.Clone(item.schedule), true, nil
}

func (c *MemoryScheduleCache) Set(_ context.Context, loanID string, schedule []model.ScheduleEntry) error {
	item := memoryItem{schedule: slices.Clone(schedule)}
	if c.ttl > 0 {
		item.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.items[loanID] = item
	c.mu.Unlock()
	return nil
}
