// Package cache constructs cache clients from the document's cache
// definitions. Memcached backends dial the configured locations; the
// local-memory backend is an in-process store used where the document
// selects it.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/eugenenazirov/studio-settings/internal/settings"
)

// Kind identifies the backend family a definition resolves to.
type Kind string

const (
	KindMemcached   Kind = "memcached"
	KindLocalMemory Kind = "local_memory"
)

// backendKinds enumerates the recognized backend identifiers.
var backendKinds = map[string]Kind{
	"django.core.cache.backends.memcached.MemcachedCache": KindMemcached,
	"django.core.cache.backends.memcached.PyLibMCCache":   KindMemcached,
	"django.core.cache.backends.locmem.LocMemCache":       KindLocalMemory,
}

var (
	// ErrMiss is returned when a key is not present in the cache.
	ErrMiss = errors.New("cache miss")
	// ErrUnknownBackend is returned for backend identifiers outside the recognized set.
	ErrUnknownBackend = errors.New("unrecognized cache backend")
)

// Client is the minimal cache surface the service needs.
type Client interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Ping() error
	Kind() Kind
	Locations() []string
}

// New constructs a client for a single cache definition. The definition's
// key prefix is applied to every key.
func New(def settings.Cache) (Client, error) {
	kind, ok := backendKinds[def.Backend]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, def.Backend)
	}

	switch kind {
	case KindMemcached:
		return newMemcached(def)
	default:
		return newLocalMemory(def), nil
	}
}

func cloneBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	out := make([]byte, len(src))
	copy(out, src)
	return out
}

func cloneStrings(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}
