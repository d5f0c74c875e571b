// Package ranking provides generic top-N ordering by vote count.
// Film popularity and review usefulness both rank through it.
package ranking

import (
	"sort"

	apperr "github.com/pmoroz/filmrate/internal/errors"
)

// Rank returns at most limit items ordered by descending score.
// Ties break by ascending id, so repeated calls over the same snapshot
// return identical sequences.
//
// filter may be nil (no filtering). limit < 1 is an input error.
// An empty input yields an empty result, not an error.
func Rank[T any](items []T, id func(T) uint64, score func(T) int, filter func(T) bool, limit int) ([]T, error) {
	if limit < 1 {
		return nil, apperr.InvalidArgument("limit must be positive")
	}

	type scored struct {
		item  T
		id    uint64
		score int
	}

	// Score once per item; score functions often count over sets.
	ranked := make([]scored, 0, len(items))
	for _, it := range items {
		if filter != nil && !filter(it) {
			continue
		}
		ranked = append(ranked, scored{item: it, id: id(it), score: score(it)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]T, len(ranked))
	for i, s := range ranked {
		out[i] = s.item
	}
	return out, nil
}
