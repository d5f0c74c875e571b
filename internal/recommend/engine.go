// Package recommend suggests unseen films based on the single most
// similar other user, measured by liked-set overlap.
package recommend

import "slices"

// Likes maps a user id to the set of film ids that user liked.
// It is a point-in-time snapshot; the engine never mutates it.
type Likes map[uint64]map[uint64]struct{}

// Recommend returns films the nearest neighbor of userID liked that
// userID has not, ascending by film id.
//
// The neighbor is the other user with the largest liked-set overlap;
// ties go to the smallest user id. Zero overlap everywhere (including
// a userID with no likes, or no other users at all) yields an empty
// result. A userID absent from the snapshot counts as having liked
// nothing.
func Recommend(userID uint64, likes Likes) []uint64 {
	mine := likes[userID]

	// Deterministic scan order so equal overlaps resolve to the
	// smallest candidate id.
	candidates := make([]uint64, 0, len(likes))
	for id := range likes {
		if id != userID {
			candidates = append(candidates, id)
		}
	}
	slices.Sort(candidates)

	var nearest uint64
	best := 0
	for _, id := range candidates {
		overlap := 0
		for film := range likes[id] {
			if _, ok := mine[film]; ok {
				overlap++
			}
		}
		if overlap > best {
			best = overlap
			nearest = id
		}
	}
	if best == 0 {
		return nil
	}

	unseen := make([]uint64, 0, len(likes[nearest]))
	for film := range likes[nearest] {
		if _, ok := mine[film]; !ok {
			unseen = append(unseen, film)
		}
	}
	slices.Sort(unseen)
	return unseen
}
