package ranking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/pmoroz/filmrate/internal/errors"
	"github.com/pmoroz/filmrate/internal/ranking"
)

type film struct {
	id    uint64
	genre string
	year  int
	likes int
}

func filmID(f film) uint64 { return f.id }
func filmScore(f film) int { return f.likes }

func TestRankOrdersByScoreThenID(t *testing.T) {
	films := []film{
		{id: 10, likes: 1},
		{id: 11, likes: 3},
		{id: 12, likes: 2},
	}

	got, err := ranking.Rank(films, filmID, filmScore, nil, 2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, uint64(11), got[0].id)
	assert.Equal(t, uint64(12), got[1].id)
}

func TestRankTieBreaksAscendingID(t *testing.T) {
	films := []film{
		{id: 7, likes: 5},
		{id: 3, likes: 5},
		{id: 9, likes: 5},
	}

	got, err := ranking.Rank(films, filmID, filmScore, nil, 10)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, uint64(3), got[0].id)
	assert.Equal(t, uint64(7), got[1].id)
	assert.Equal(t, uint64(9), got[2].id)
}

func TestRankDeterministic(t *testing.T) {
	films := []film{
		{id: 4, likes: 2}, {id: 1, likes: 2}, {id: 8, likes: 9}, {id: 2, likes: 2},
	}

	first, err := ranking.Rank(films, filmID, filmScore, nil, 4)
	require.NoError(t, err)
	second, err := ranking.Rank(films, filmID, filmScore, nil, 4)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRankFilterExcludesBeforeScoring(t *testing.T) {
	films := []film{
		{id: 1, genre: "drama", year: 2001, likes: 9},
		{id: 2, genre: "comedy", year: 2001, likes: 8},
		{id: 3, genre: "drama", year: 1999, likes: 7},
		{id: 4, genre: "drama", year: 2001, likes: 1},
	}
	dramas2001 := func(f film) bool { return f.genre == "drama" && f.year == 2001 }

	got, err := ranking.Rank(films, filmID, filmScore, dramas2001, 10)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].id)
	assert.Equal(t, uint64(4), got[1].id)
	for _, f := range got {
		assert.True(t, dramas2001(f))
	}
}

func TestRankScoresNonIncreasing(t *testing.T) {
	films := []film{
		{id: 1, likes: 4}, {id: 2, likes: 9}, {id: 3, likes: 9}, {id: 4, likes: 0},
	}

	got, err := ranking.Rank(films, filmID, filmScore, nil, 10)
	require.NoError(t, err)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].likes, got[i].likes)
	}
}

func TestRankEmptyInput(t *testing.T) {
	got, err := ranking.Rank(nil, filmID, filmScore, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRankInvalidLimit(t *testing.T) {
	films := []film{{id: 1, likes: 1}}

	for _, limit := range []int{0, -1, -100} {
		_, err := ranking.Rank(films, filmID, filmScore, nil, limit)
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument, "limit %d", limit)
	}
}

func TestRankTruncatesToLimit(t *testing.T) {
	films := []film{
		{id: 1, likes: 1}, {id: 2, likes: 2}, {id: 3, likes: 3},
	}

	got, err := ranking.Rank(films, filmID, filmScore, nil, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(3), got[0].id)
}
