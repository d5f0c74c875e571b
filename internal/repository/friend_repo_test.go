package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pmoroz/filmrate/internal/db"
	"github.com/pmoroz/filmrate/internal/graph"
	"github.com/pmoroz/filmrate/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestFriendRepoPutGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewFriendRepository(setupTestDB(t))

	_, ok, err := repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Put(ctx, graph.Edge{From: 1, To: 2}))
	e, ok, err := repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, e.Mutual)

	// upsert flips the mutual flag in place
	e.Mutual = true
	require.NoError(t, repo.Put(ctx, e))
	e, ok, err = repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, e.Mutual)

	require.NoError(t, repo.Delete(ctx, 1, 2))
	_, ok, err = repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting again is a no-op
	require.NoError(t, repo.Delete(ctx, 1, 2))
}

func TestFriendRepoListFrom(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewFriendRepository(setupTestDB(t))

	require.NoError(t, repo.Put(ctx, graph.Edge{From: 1, To: 5}))
	require.NoError(t, repo.Put(ctx, graph.Edge{From: 1, To: 3}))
	require.NoError(t, repo.Put(ctx, graph.Edge{From: 2, To: 1}))

	edges, err := repo.ListFrom(ctx, 1)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, uint64(3), edges[0].To)
	assert.Equal(t, uint64(5), edges[1].To)
}

// The graph state machine must behave identically over the DB-backed
// store and the in-memory one.
func TestGraphOverFriendRepo(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewFriendRepository(setupTestDB(t))
	g := graph.New(repo)

	require.NoError(t, g.RequestFriend(ctx, 1, 2))
	require.NoError(t, g.RequestFriend(ctx, 2, 1))

	e, ok, err := repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, e.Mutual)

	require.NoError(t, g.RemoveFriend(ctx, 1, 2))

	_, ok, err = repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	e, ok, err = repo.Get(ctx, 2, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, e.Mutual)
}
