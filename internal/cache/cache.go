package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache stores encoded list responses. Misses and backend failures look the
// same to callers, a read always falls through to the store.
//
// DeletePrefix also advances the generation of prefix. List keys embed the
// generation read before the store query, so a list computed before a write
// is stored under a key no later read asks for.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	DeletePrefix(ctx context.Context, prefix string)
	// Generation reports false when it cannot be read, callers then skip
	// the cache.
	Generation(ctx context.Context, prefix string) (uint64, bool)
}

// Memory is an in-process TTL cache.
type Memory struct {
	mu   sync.RWMutex
	ttl  time.Duration
	m    map[string]entry
	gens map[string]uint64
}

type entry struct {
	val []byte
	exp time.Time
}

func New(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Memory{
		ttl:  ttl,
		m:    make(map[string]entry),
		gens: make(map[string]uint64),
	}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}

	return e.val, true
}

func (c *Memory) Set(_ context.Context, key string, val []byte) {
	c.mu.Lock()
	c.m[key] = entry{val: val, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Memory) DeletePrefix(_ context.Context, prefix string) {
	c.mu.Lock()
	c.gens[prefix]++
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
}

func (c *Memory) Generation(_ context.Context, prefix string) (uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[prefix], true
}

func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
