package suggest

import (
	"slices"
	"sync/atomic"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheKey struct {
	token string
	limit int
}

// resultCache memoizes suggestion lists. Lexicons never change, so entries never go stale.
// A nil *resultCache caches nothing.
type resultCache struct {
	lru    *lru.Cache[cacheKey, []Suggestion]
	size   int
	hits   atomic.Int64
	misses atomic.Int64
}

func newResultCache(size int) *resultCache {
	if size <= 0 {
		return nil
	}
	c, err := lru.New[cacheKey, []Suggestion](size)
	if err != nil {
		log.Warnf("Suggestion cache disabled: %v", err)
		return nil
	}
	return &resultCache{lru: c, size: size}
}

func (rc *resultCache) get(k cacheKey) ([]Suggestion, bool) {
	if rc == nil {
		return nil, false
	}
	if v, ok := rc.lru.Get(k); ok {
		rc.hits.Add(1)
		return slices.Clone(v), true
	}
	rc.misses.Add(1)
	return nil, false
}

func (rc *resultCache) put(k cacheKey, v []Suggestion) {
	if rc == nil {
		return
	}
	rc.lru.Add(k, slices.Clone(v))
}

func (rc *resultCache) stats() map[string]int {
	if rc == nil {
		return map[string]int{"cacheCapacity": 0}
	}
	return map[string]int{
		"cacheHits":     int(rc.hits.Load()),
		"cacheMisses":   int(rc.misses.Load()),
		"cacheSize":     rc.lru.Len(),
		"cacheCapacity": rc.size,
	}
}
