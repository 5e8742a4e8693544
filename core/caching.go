package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/schema"
)

// analysisCacheVersion invalidates cached records when the scoring model
// changes shape. Bump it whenever the RepoAnalysis layout or the weight
// table moves.
const analysisCacheVersion = 1

// analysisTTL is how long a cached final analysis stays servable. The store
// keeps entries longer; staleness is decided here.
const analysisTTL = time.Hour

// analysisCacheKey builds the cache key for one scan target. An empty commit
// history pins the key to "no-commits" so it still caches deterministically.
func analysisCacheKey(id schema.RepoID, branch, sha string) string {
	if sha == "" {
		sha = "no-commits"
	}
	return fmt.Sprintf("%s:%s:%s", id.String(), branch, sha)
}

// checkCacheHit returns the cached final analysis for key when it exists,
// matches the current cache version and is younger than analysisTTL.
// Any store error is treated as a miss.
func checkCacheHit(store contract.CacheStore, key string, now time.Time) *schema.RepoAnalysis {
	if store == nil {
		return nil
	}
	data, version, timestamp, err := store.Get(key)
	if err != nil || len(data) == 0 {
		return nil
	}
	if version != analysisCacheVersion {
		return nil
	}
	cachedAt := time.Unix(timestamp, 0)
	if now.Sub(cachedAt) >= analysisTTL {
		return nil
	}

	var analysis schema.RepoAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		contract.LogWarn("decoding cached analysis", err)
		return nil
	}
	analysis.Cache = schema.CacheMeta{Key: key, IsCached: true, CachedAt: cachedAt}
	return &analysis
}

// storeAnalysis persists a final analysis. Cache write failures are logged
// and otherwise ignored; the scan result is already in hand.
func storeAnalysis(store contract.CacheStore, key string, analysis *schema.RepoAnalysis, now time.Time) {
	if store == nil {
		return
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		contract.LogWarn("encoding analysis for cache", err)
		return
	}
	if err := store.Set(key, data, analysisCacheVersion, now.Unix()); err != nil {
		contract.LogWarn("writing analysis cache", err)
	}
}
