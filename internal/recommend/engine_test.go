package recommend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pmoroz/filmrate/internal/recommend"
)

func likeSet(films ...uint64) map[uint64]struct{} {
	s := make(map[uint64]struct{}, len(films))
	for _, f := range films {
		s[f] = struct{}{}
	}
	return s
}

func TestRecommendFromNearestNeighbor(t *testing.T) {
	likes := recommend.Likes{
		1: likeSet(10, 11),
		2: likeSet(10, 11, 12, 13), // overlap 2, best
		3: likeSet(11, 14),         // overlap 1
	}

	got := recommend.Recommend(1, likes)
	assert.Equal(t, []uint64{12, 13}, got)
}

func TestRecommendNeverIncludesOwnLikes(t *testing.T) {
	likes := recommend.Likes{
		1: likeSet(10, 12),
		2: likeSet(10, 12, 20),
	}

	got := recommend.Recommend(1, likes)
	for _, film := range got {
		assert.NotContains(t, []uint64{10, 12}, film)
	}
	assert.Equal(t, []uint64{20}, got)
}

// Users 1,2,3 with films 10,11,12 liked by {1}, {1,2,3}, {1,2}: every
// peer's liked set is a subset of user 1's, so there is nothing left
// to suggest.
func TestRecommendPeersFullyCovered(t *testing.T) {
	likes := recommend.Likes{
		1: likeSet(10, 11, 12),
		2: likeSet(11, 12),
		3: likeSet(11),
	}

	assert.Empty(t, recommend.Recommend(1, likes))
}

func TestRecommendTieBreaksSmallestUserID(t *testing.T) {
	likes := recommend.Likes{
		1: likeSet(10),
		5: likeSet(10, 50),
		3: likeSet(10, 30),
	}

	// users 3 and 5 both overlap by one film; 3 wins
	assert.Equal(t, []uint64{30}, recommend.Recommend(1, likes))
}

func TestRecommendNoLikesIsEmpty(t *testing.T) {
	likes := recommend.Likes{
		1: likeSet(),
		2: likeSet(10, 11),
	}

	assert.Empty(t, recommend.Recommend(1, likes))
}

func TestRecommendUnknownUserIsEmpty(t *testing.T) {
	likes := recommend.Likes{
		2: likeSet(10, 11),
	}

	assert.Empty(t, recommend.Recommend(99, likes))
}

func TestRecommendNoOtherUsersIsEmpty(t *testing.T) {
	likes := recommend.Likes{
		1: likeSet(10, 11),
	}

	assert.Empty(t, recommend.Recommend(1, likes))
}

func TestRecommendNoOverlapIsEmpty(t *testing.T) {
	likes := recommend.Likes{
		1: likeSet(10),
		2: likeSet(20, 21),
	}

	assert.Empty(t, recommend.Recommend(1, likes))
}
