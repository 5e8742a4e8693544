package core

import (
	"fmt"
	"sync"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/schema"
)

// Broadcaster fans completed analyses out to registered listeners. Delivery
// is best-effort: a panicking listener is logged and skipped, and having no
// listeners at all is fine.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners []contract.Publisher
}

var _ contract.Publisher = &Broadcaster{}

// Register adds a listener. Listeners cannot be removed; a Broadcaster lives
// as long as the surfaces it serves.
func (b *Broadcaster) Register(p contract.Publisher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, p)
}

// Publish delivers a copy of the analysis to every listener.
func (b *Broadcaster) Publish(analysis *schema.RepoAnalysis) {
	b.mu.RLock()
	listeners := make([]contract.Publisher, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, listener := range listeners {
		deliver(listener, analysis.Clone())
	}
}

// deliver isolates one listener call so a broken listener cannot take down
// the publishing run.
func deliver(listener contract.Publisher, analysis *schema.RepoAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			contract.LogWarn("delivering analysis", fmt.Errorf("listener panic: %v", r))
		}
	}()
	listener.Publish(analysis)
}
