// Package iocache is for caching I/O calls.
package iocache

import (
	"sync"

	"github.com/slopscan/slopscan/internal/contract"
)

// CacheStoreManager manages the analysis cache store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	analysis     contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetAnalysisStore returns the analysis CacheStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
