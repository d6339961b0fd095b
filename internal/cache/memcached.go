package cache

import (
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/eugenenazirov/studio-settings/internal/settings"
)

// memcachedClient fronts one or more memcached servers resolved from the
// definition's host:port locations.
type memcachedClient struct {
	mc        *memcache.Client
	prefix    string
	locations []string
}

func newMemcached(def settings.Cache) (*memcachedClient, error) {
	if len(def.Locations) == 0 {
		return nil, fmt.Errorf("cache definition has no locations")
	}

	addrs := make([]string, 0, len(def.Locations))
	for _, loc := range def.Locations {
		addr := strings.TrimSpace(loc)
		if addr == "" {
			return nil, fmt.Errorf("cache location must not be empty")
		}
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return nil, fmt.Errorf("invalid cache location %q: %w", addr, err)
		}
		addrs = append(addrs, addr)
	}

	return &memcachedClient{
		mc:        memcache.New(addrs...),
		prefix:    def.KeyPrefix,
		locations: addrs,
	}, nil
}

func (c *memcachedClient) Get(key string) ([]byte, error) {
	item, err := c.mc.Get(c.prefixed(key))
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("memcached get: %w", err)
	}
	return item.Value, nil
}

func (c *memcachedClient) Set(key string, value []byte, ttl time.Duration) error {
	seconds := int64(ttl / time.Second)
	if seconds < 0 || seconds > math.MaxInt32 {
		return fmt.Errorf("ttl out of range: %s", ttl)
	}

	err := c.mc.Set(&memcache.Item{
		Key:        c.prefixed(key),
		Value:      value,
		Expiration: int32(seconds),
	})
	if err != nil {
		return fmt.Errorf("memcached set: %w", err)
	}
	return nil
}

func (c *memcachedClient) Ping() error {
	return c.mc.Ping()
}

func (c *memcachedClient) Kind() Kind {
	return KindMemcached
}

func (c *memcachedClient) Locations() []string {
	return cloneStrings(c.locations)
}

func (c *memcachedClient) prefixed(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}
