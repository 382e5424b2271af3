package api

import (
	"sync"
	"time"
)

// cached is a TTL-guarded copy of one reference list.
type cached[T any] struct {
	mu        sync.RWMutex
	items     []T
	fetchedAt time.Time
	ttl       time.Duration
}

func (c *cached[T]) get() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.items == nil || time.Since(c.fetchedAt) > c.ttl {
		return nil
	}

	result := make([]T, len(c.items))
	copy(result, c.items)
	return result
}

func (c *cached[T]) set(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]T, len(items))
	copy(c.items, items)
	c.fetchedAt = time.Now()
}

func (c *cached[T]) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
}

// RefCache holds the slow-moving reference lists (clients, jobs, team,
// job types, time categories) so filter pickers don't refetch them on
// every keystroke.
type RefCache struct {
	clients    cached[ClientRef]
	jobs       cached[Job]
	team       cached[TeamMember]
	jobTypes   cached[JobType]
	categories cached[TimeCategory]
}

func NewRefCache(ttl time.Duration) *RefCache {
	c := &RefCache{}
	c.clients.ttl = ttl
	c.jobs.ttl = ttl
	c.team.ttl = ttl
	c.jobTypes.ttl = ttl
	c.categories.ttl = ttl
	return c
}

// Invalidate drops every cached list.
func (c *RefCache) Invalidate() {
	c.clients.invalidate()
	c.jobs.invalidate()
	c.team.invalidate()
	c.jobTypes.invalidate()
	c.categories.invalidate()
}
