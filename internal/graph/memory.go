package graph

import (
	"context"
	"sync"
)

type pairKey struct {
	from, to uint64
}

// MemoryStore is an in-memory EdgeStore. Used in tests and wherever
// the graph does not need to survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	edges map[pairKey]Edge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{edges: make(map[pairKey]Edge)}
}

func (s *MemoryStore) Get(_ context.Context, from, to uint64) (Edge, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.edges[pairKey{from, to}]
	return e, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, e Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[pairKey{e.From, e.To}] = e
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, from, to uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges, pairKey{from, to})
	return nil
}

func (s *MemoryStore) ListFrom(_ context.Context, from uint64) ([]Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Edge
	for k, e := range s.edges {
		if k.from == from {
			out = append(out, e)
		}
	}
	return out, nil
}
