package cache

import (
	"sync"
	"time"

	"github.com/eugenenazirov/studio-settings/internal/settings"
)

// localMemoryClient keeps entries in-memory and guards access with a
// RWMutex. Values are copied on the way in and out so callers cannot mutate
// stored state.
type localMemoryClient struct {
	prefix    string
	locations []string

	mu      sync.RWMutex
	entries map[string]localEntry

	clock func() time.Time
}

type localEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func newLocalMemory(def settings.Cache) *localMemoryClient {
	return &localMemoryClient{
		prefix:    def.KeyPrefix,
		locations: cloneStrings(def.Locations),
		entries:   make(map[string]localEntry),
		clock:     time.Now,
	}
}

func (c *localMemoryClient) Get(key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[c.prefixed(key)]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && !c.clock().Before(entry.expiresAt) {
		return nil, ErrMiss
	}
	return cloneBytes(entry.value), nil
}

func (c *localMemoryClient) Set(key string, value []byte, ttl time.Duration) error {
	entry := localEntry{value: cloneBytes(value)}
	if ttl > 0 {
		entry.expiresAt = c.clock().Add(ttl)
	}

	c.mu.Lock()
	c.entries[c.prefixed(key)] = entry
	c.mu.Unlock()

	return nil
}

func (c *localMemoryClient) Ping() error {
	return nil
}

func (c *localMemoryClient) Kind() Kind {
	return KindLocalMemory
}

func (c *localMemoryClient) Locations() []string {
	return cloneStrings(c.locations)
}

func (c *localMemoryClient) prefixed(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}
