package lexicon

// distanceScratch holds the two DP rows and the decoded key reused across one query.
type distanceScratch struct {
	prev, curr []int
	key        []rune
}

func newDistanceScratch(n int) *distanceScratch {
	return &distanceScratch{
		prev: make([]int, n+1),
		curr: make([]int, n+1),
		key:  make([]rune, 0, n),
	}
}

// distance returns the Levenshtein distance between query and key when it is at most
// bound, and bound+1 otherwise. It gives up as soon as a whole DP row exceeds bound.
func (sc *distanceScratch) distance(query []rune, key string, bound int) int {
	sc.key = sc.key[:0]
	for _, r := range key {
		sc.key = append(sc.key, r)
	}
	return boundedLevenshtein(query, sc.key, bound, sc)
}

func boundedLevenshtein(a, b []rune, bound int, sc *distanceScratch) int {
	if diff := len(a) - len(b); diff > bound || -diff > bound {
		return bound + 1
	}
	if len(a) == 0 || len(b) == 0 {
		return max(len(a), len(b))
	}
	if cap(sc.prev) < len(b)+1 {
		sc.prev = make([]int, len(b)+1)
		sc.curr = make([]int, len(b)+1)
	}
	prev, curr := sc.prev[:len(b)+1], sc.curr[:len(b)+1]

	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			rowMin = min(rowMin, curr[j])
		}
		if rowMin > bound {
			return bound + 1
		}
		prev, curr = curr, prev
	}

	if prev[len(b)] > bound {
		return bound + 1
	}
	return prev[len(b)]
}
