package core

import (
	"sync"
	"testing"

	"github.com/slopscan/slopscan/schema"
	"github.com/stretchr/testify/assert"
)

// captureSink records every published analysis.
type captureSink struct {
	mu      sync.Mutex
	records []*schema.RepoAnalysis
}

func (c *captureSink) Publish(analysis *schema.RepoAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, analysis)
}

func (c *captureSink) all() []*schema.RepoAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*schema.RepoAnalysis, len(c.records))
	copy(out, c.records)
	return out
}

type panickySink struct{}

func (panickySink) Publish(*schema.RepoAnalysis) { panic("listener gone") }

func TestBroadcasterFanOut(t *testing.T) {
	var b Broadcaster
	first := &captureSink{}
	second := &captureSink{}
	b.Register(first)
	b.Register(second)

	b.Publish(&schema.RepoAnalysis{SlopScore: 33})

	assert.Len(t, first.all(), 1)
	assert.Len(t, second.all(), 1)
}

func TestBroadcasterNoListeners(t *testing.T) {
	var b Broadcaster
	assert.NotPanics(t, func() {
		b.Publish(&schema.RepoAnalysis{})
	})
}

func TestBroadcasterListenerPanicIsolated(t *testing.T) {
	var b Broadcaster
	survivor := &captureSink{}
	b.Register(panickySink{})
	b.Register(survivor)

	assert.NotPanics(t, func() {
		b.Publish(&schema.RepoAnalysis{})
	})
	assert.Len(t, survivor.all(), 1)
}

func TestBroadcasterDeliversCopies(t *testing.T) {
	var b Broadcaster
	sink := &captureSink{}
	b.Register(sink)

	original := &schema.RepoAnalysis{
		Indicators: []schema.SlopIndicator{{Type: "x", Severity: schema.LowSeverity}},
	}
	b.Publish(original)

	sink.all()[0].Indicators[0].Severity = schema.HighSeverity
	assert.Equal(t, schema.LowSeverity, original.Indicators[0].Severity)
}
