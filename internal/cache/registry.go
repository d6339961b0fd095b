package cache

import (
	"fmt"
	"sort"

	"github.com/eugenenazirov/studio-settings/internal/settings"
)

// Registry holds one constructed client per cache definition.
type Registry struct {
	clients map[string]Client
}

// NewRegistry constructs clients for every definition in the document. Any
// unbuildable definition fails the whole registry.
func NewRegistry(defs map[string]settings.Cache) (*Registry, error) {
	clients := make(map[string]Client, len(defs))
	for name, def := range defs {
		client, err := New(def)
		if err != nil {
			return nil, fmt.Errorf("cache %q: %w", name, err)
		}
		clients[name] = client
	}
	return &Registry{clients: clients}, nil
}

// Client returns the client for a named cache.
func (r *Registry) Client(name string) (Client, bool) {
	client, ok := r.clients[name]
	return client, ok
}

// Names returns the registered cache names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
