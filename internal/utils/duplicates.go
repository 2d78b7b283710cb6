package utils

import "math"

// CreateRankList returns 1-based ranks for count items that are already sorted best-first.
// Ranks saturate at math.MaxUint16 so the tail of a very large list shares the last rank.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(min(i+1, math.MaxUint16))
	}
	return ranks
}
