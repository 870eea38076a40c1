package application

import (
	"sync"
	"time"

	"github.com/example/learning-center-scheduler/internal/calendar"
)

// directoryCache keeps the most recent room, teacher and class listing so
// that calendar rendering does not re-read the directory on every request.
type directoryCache struct {
	mu        sync.RWMutex
	now       func() time.Time
	ttl       time.Duration
	snapshot  calendar.Directory
	expiresAt time.Time
	valid     bool
}

func newDirectoryCache(ttl time.Duration, now func() time.Time) *directoryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &directoryCache{now: now, ttl: ttl}
}

func (c *directoryCache) Get() (calendar.Directory, bool) {
	if c == nil {
		return calendar.Directory{}, false
	}
	c.mu.RLock()
	snapshot, expiresAt, valid := c.snapshot, c.expiresAt, c.valid
	c.mu.RUnlock()
	if !valid {
		return calendar.Directory{}, false
	}
	if c.now().After(expiresAt) {
		c.Invalidate()
		return calendar.Directory{}, false
	}
	return cloneDirectory(snapshot), true
}

func (c *directoryCache) Store(dir calendar.Directory) {
	if c == nil {
		return
	}
	cloned := cloneDirectory(dir)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	c.snapshot = cloned
	c.expiresAt = expiry
	c.valid = true
	c.mu.Unlock()
}

func (c *directoryCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.snapshot = calendar.Directory{}
	c.valid = false
	c.mu.Unlock()
}

func cloneDirectory(dir calendar.Directory) calendar.Directory {
	return calendar.Directory{
		Rooms:    cloneResources(dir.Rooms),
		Teachers: cloneResources(dir.Teachers),
		Classes:  cloneResources(dir.Classes),
	}
}

func cloneResources(resources []calendar.Resource) []calendar.Resource {
	if len(resources) == 0 {
		return nil
	}
	out := make([]calendar.Resource, len(resources))
	copy(out, resources)
	return out
}
