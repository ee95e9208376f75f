// Package registry tracks every order ever accepted: current state and
// owner-indexed history. It stores value snapshots, so readers never observe
// a half-updated order while the matching engine works on the live copy.
package registry

import (
	"sort"
	"sync"

	"github.com/meridian-dex/meridian/pkg/exchange/orderbook"
)

type Registry struct {
	mu      sync.RWMutex
	orders  map[string]orderbook.Order // id -> latest snapshot
	byOwner map[string][]string        // owner -> ids in insertion order
}

func New() *Registry {
	return &Registry{
		orders:  make(map[string]orderbook.Order),
		byOwner: make(map[string][]string),
	}
}

// Put inserts or replaces the snapshot for an order.
func (r *Registry) Put(o orderbook.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.orders[o.ID]; !seen {
		r.byOwner[o.Owner] = append(r.byOwner[o.Owner], o.ID)
	}
	r.orders[o.ID] = o
}

// PutAll replaces snapshots for a batch of orders under one lock hold.
func (r *Registry) PutAll(orders []orderbook.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range orders {
		if _, seen := r.orders[o.ID]; !seen {
			r.byOwner[o.Owner] = append(r.byOwner[o.Owner], o.ID)
		}
		r.orders[o.ID] = o
	}
}

// Get returns the latest snapshot of an order.
func (r *Registry) Get(id string) (orderbook.Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	return o, ok
}

// ByOwner returns all orders ever placed by owner, oldest first.
func (r *Registry) ByOwner(owner string) []orderbook.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byOwner[owner]
	out := make([]orderbook.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.orders[id])
	}
	return out
}

// Open returns all non-terminal orders, oldest first. Used for crash
// recovery checks and admin tooling.
func (r *Registry) Open() []orderbook.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []orderbook.Order
	for _, o := range r.orders {
		if !o.Status.Terminal() {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out
}

// Count returns the total number of tracked orders.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
