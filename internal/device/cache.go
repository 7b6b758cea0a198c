// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package device

import (
	"context"
	"sync"

	"github.com/pdiddy/ocean-bridge/internal/topology"
)

// Cache holds device snapshots for the process lifetime. Entries are
// populated lazily on first use per device and never invalidated, so
// concurrent sampling calls share one fetch per device. Safe for
// concurrent use.
type Cache struct {
	client *Client

	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	meta *Metadata
	topo *topology.Topology
}

// NewCache returns a cache backed by the given device client.
func NewCache(client *Client) *Cache {
	return &Cache{
		client:  client,
		entries: make(map[string]*entry),
	}
}

// Snapshot returns the metadata and topology for deviceID, fetching them
// on first use.
func (c *Cache) Snapshot(ctx context.Context, deviceID string) (*Metadata, *topology.Topology, error) {
	c.mu.RLock()
	e, ok := c.entries[deviceID]
	c.mu.RUnlock()
	if ok {
		return e.meta, e.topo, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another call may have populated the entry while we waited.
	if e, ok := c.entries[deviceID]; ok {
		return e.meta, e.topo, nil
	}

	meta, err := c.client.Get(ctx, deviceID)
	if err != nil {
		return nil, nil, err
	}
	topo, err := topology.New(meta.Qubits, meta.Couplers)
	if err != nil {
		return nil, nil, err
	}

	c.entries[deviceID] = &entry{meta: meta, topo: topo}
	return meta, topo, nil
}
