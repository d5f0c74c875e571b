package graph_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/pmoroz/filmrate/internal/errors"
	"github.com/pmoroz/filmrate/internal/graph"
)

func newGraph() (*graph.Graph, *graph.MemoryStore) {
	store := graph.NewMemoryStore()
	return graph.New(store), store
}

// checkSymmetry asserts the two-edge invariant for a pair: an edge is
// mutual iff the reverse edge exists and is mutual too.
func checkSymmetry(t *testing.T, store *graph.MemoryStore, a, b uint64) {
	t.Helper()
	ctx := context.Background()

	ab, abOK, err := store.Get(ctx, a, b)
	require.NoError(t, err)
	ba, baOK, err := store.Get(ctx, b, a)
	require.NoError(t, err)

	if abOK && ab.Mutual {
		assert.True(t, baOK, "mutual edge (%d,%d) without reverse", a, b)
		assert.True(t, ba.Mutual, "mutual flags disagree for (%d,%d)", a, b)
	}
	if baOK && ba.Mutual {
		assert.True(t, abOK, "mutual edge (%d,%d) without reverse", b, a)
		assert.True(t, ab.Mutual, "mutual flags disagree for (%d,%d)", b, a)
	}
}

func TestRequestFriendPending(t *testing.T) {
	ctx := context.Background()
	g, store := newGraph()

	require.NoError(t, g.RequestFriend(ctx, 1, 2))

	e, ok, err := store.Get(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, e.Mutual)

	_, ok, err = store.Get(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequestFriendMutualUpgrade(t *testing.T) {
	ctx := context.Background()
	g, store := newGraph()

	require.NoError(t, g.RequestFriend(ctx, 1, 2))
	require.NoError(t, g.RequestFriend(ctx, 2, 1))

	ab, ok, err := store.Get(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, ab.Mutual)

	ba, ok, err := store.Get(ctx, 2, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, ba.Mutual)

	friends, err := g.FriendsOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, friends)

	friends, err = g.FriendsOf(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, friends)
}

func TestRequestFriendIdempotent(t *testing.T) {
	ctx := context.Background()
	g, store := newGraph()

	require.NoError(t, g.RequestFriend(ctx, 1, 2))
	once, _, err := store.Get(ctx, 1, 2)
	require.NoError(t, err)

	require.NoError(t, g.RequestFriend(ctx, 1, 2))
	twice, ok, err := store.Get(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, once, twice)

	friends, err := g.FriendsOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, friends)
}

func TestRequestFriendSelfRejected(t *testing.T) {
	g, _ := newGraph()
	err := g.RequestFriend(context.Background(), 5, 5)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

// Removing one side of a mutual pair leaves the reverse request
// pending rather than deleting it.
func TestRemoveFriendDowngradesMutual(t *testing.T) {
	ctx := context.Background()
	g, store := newGraph()

	require.NoError(t, g.RequestFriend(ctx, 1, 2))
	require.NoError(t, g.RequestFriend(ctx, 2, 1))
	require.NoError(t, g.RemoveFriend(ctx, 1, 2))

	_, ok, err := store.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ba, ok, err := store.Get(ctx, 2, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, ba.Mutual)

	friends, err := g.FriendsOf(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, friends)

	friends, err = g.FriendsOf(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, friends)
}

func TestRemoveFriendAbsentNoop(t *testing.T) {
	ctx := context.Background()
	g, _ := newGraph()

	require.NoError(t, g.RemoveFriend(ctx, 1, 2))

	// pending edge untouched when the other direction is removed
	require.NoError(t, g.RequestFriend(ctx, 1, 2))
	require.NoError(t, g.RemoveFriend(ctx, 2, 1))

	friends, err := g.FriendsOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, friends)
}

func TestFriendsOfIncludesPendingRequests(t *testing.T) {
	ctx := context.Background()
	g, _ := newGraph()

	require.NoError(t, g.RequestFriend(ctx, 1, 2)) // pending
	require.NoError(t, g.RequestFriend(ctx, 1, 3)) // mutual below
	require.NoError(t, g.RequestFriend(ctx, 3, 1))

	friends, err := g.FriendsOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, friends)

	// 2 never requested anyone
	friends, err = g.FriendsOf(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestCommonFriendsCommutative(t *testing.T) {
	ctx := context.Background()
	g, _ := newGraph()

	// 1 and 2 both requested 3 and 4; 1 alone requested 5
	for _, pair := range [][2]uint64{{1, 3}, {1, 4}, {1, 5}, {2, 3}, {2, 4}} {
		require.NoError(t, g.RequestFriend(ctx, pair[0], pair[1]))
	}

	ab, err := g.CommonFriends(ctx, 1, 2)
	require.NoError(t, err)
	ba, err := g.CommonFriends(ctx, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, []uint64{3, 4}, ab)
	assert.Equal(t, ab, ba)
}

func TestCommonFriendsEmpty(t *testing.T) {
	ctx := context.Background()
	g, _ := newGraph()

	require.NoError(t, g.RequestFriend(ctx, 1, 3))

	common, err := g.CommonFriends(ctx, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, common)
}

// Mirrors the request/remove walkthrough: 1->2 then 2->1 gives a
// mutual pair, removing 1->2 leaves 2->1 pending.
func TestFriendshipLifecycle(t *testing.T) {
	ctx := context.Background()
	g, store := newGraph()

	require.NoError(t, g.RequestFriend(ctx, 1, 2))
	require.NoError(t, g.RequestFriend(ctx, 2, 1))
	checkSymmetry(t, store, 1, 2)

	f1, err := g.FriendsOf(ctx, 1)
	require.NoError(t, err)
	f2, err := g.FriendsOf(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, f1)
	assert.Equal(t, []uint64{1}, f2)

	require.NoError(t, g.RemoveFriend(ctx, 1, 2))
	checkSymmetry(t, store, 1, 2)

	f1, err = g.FriendsOf(ctx, 1)
	require.NoError(t, err)
	f2, err = g.FriendsOf(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, f1)
	assert.Equal(t, []uint64{1}, f2)
}

// Hammer a single pair from both sides; after every interleaving the
// mutual flags must agree with edge existence.
func TestConcurrentPairMutationsKeepInvariant(t *testing.T) {
	ctx := context.Background()
	g, store := newGraph()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(4)
		go func() { defer wg.Done(); _ = g.RequestFriend(ctx, 1, 2) }()
		go func() { defer wg.Done(); _ = g.RequestFriend(ctx, 2, 1) }()
		go func() { defer wg.Done(); _ = g.RemoveFriend(ctx, 1, 2) }()
		go func() { defer wg.Done(); _ = g.RemoveFriend(ctx, 2, 1) }()
	}
	wg.Wait()

	checkSymmetry(t, store, 1, 2)
}
