// Package graph manages the friendship state machine between users.
//
// Each unordered pair of users is in one of three states: no edge in
// either direction, a pending one-way request, or a mutual friendship
// where both directed edges exist and carry Mutual=true.
package graph

import (
	"context"
	"slices"
	"sync"

	apperr "github.com/pmoroz/filmrate/internal/errors"
)

// Edge is a directed friend request from From to To. Mutual is true
// iff the reverse edge also exists.
type Edge struct {
	From   uint64
	To     uint64
	Mutual bool
}

// EdgeStore persists directed friend edges. Implementations store each
// direction as an independent record and apply no mutuality logic of
// their own; Graph owns the state transitions.
type EdgeStore interface {
	// Get returns the edge (from, to) and whether it exists.
	Get(ctx context.Context, from, to uint64) (Edge, bool, error)
	// Put inserts the edge or updates its Mutual flag.
	Put(ctx context.Context, e Edge) error
	// Delete removes the edge (from, to). Deleting a missing edge is a no-op.
	Delete(ctx context.Context, from, to uint64) error
	// ListFrom returns all outgoing edges of a user.
	ListFrom(ctx context.Context, from uint64) ([]Edge, error)
}

// Graph applies friendship state transitions over an EdgeStore.
// A single mutex serializes transitions so the two-edge invariant is
// never observed torn by concurrent request handlers.
type Graph struct {
	mu    sync.Mutex
	store EdgeStore
}

func New(store EdgeStore) *Graph {
	return &Graph{store: store}
}

// RequestFriend records a friend request from userID to friendID.
//
// If the reverse request already exists the pair becomes mutual and
// both edges are flagged. Re-requesting an existing edge is a no-op.
// Self-requests are rejected.
func (g *Graph) RequestFriend(ctx context.Context, userID, friendID uint64) error {
	if userID == friendID {
		return apperr.InvalidArgument("cannot befriend yourself")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok, err := g.store.Get(ctx, userID, friendID); err != nil {
		return err
	} else if ok {
		return nil // idempotent re-request
	}

	reverse, reverseExists, err := g.store.Get(ctx, friendID, userID)
	if err != nil {
		return err
	}
	if reverseExists && !reverse.Mutual {
		reverse.Mutual = true
		if err := g.store.Put(ctx, reverse); err != nil {
			return err
		}
	}

	return g.store.Put(ctx, Edge{From: userID, To: friendID, Mutual: reverseExists})
}

// RemoveFriend deletes the edge userID -> friendID. A mutual pair is
// downgraded: the reverse request survives with Mutual=false. Removing
// a non-existent edge is a no-op.
func (g *Graph) RemoveFriend(ctx context.Context, userID, friendID uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	edge, ok, err := g.store.Get(ctx, userID, friendID)
	if err != nil || !ok {
		return err
	}

	if err := g.store.Delete(ctx, userID, friendID); err != nil {
		return err
	}

	if edge.Mutual {
		reverse, ok, err := g.store.Get(ctx, friendID, userID)
		if err != nil {
			return err
		}
		if ok {
			reverse.Mutual = false
			return g.store.Put(ctx, reverse)
		}
	}
	return nil
}

// FriendsOf returns everyone userID has requested or is mutual with,
// ascending by id. A user with no outgoing edges gets an empty list.
func (g *Graph) FriendsOf(ctx context.Context, userID uint64) ([]uint64, error) {
	edges, err := g.store.ListFrom(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.To)
	}
	slices.Sort(ids)
	return ids, nil
}

// CommonFriends returns the intersection of both users' friend lists,
// ascending by id.
func (g *Graph) CommonFriends(ctx context.Context, userID, otherID uint64) ([]uint64, error) {
	mine, err := g.FriendsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	theirs, err := g.FriendsOf(ctx, otherID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(mine))
	for _, id := range mine {
		seen[id] = struct{}{}
	}
	common := make([]uint64, 0)
	for _, id := range theirs {
		if _, ok := seen[id]; ok {
			common = append(common, id)
		}
	}
	slices.Sort(common)
	return common, nil
}
