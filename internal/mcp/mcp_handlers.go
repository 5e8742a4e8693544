package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/slopscan/slopscan/core"
	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	src     contract.RepoSource
	mgr     contract.CacheManager
}

// recordCollector retains the most recent published record for one scan.
type recordCollector struct {
	mu  sync.Mutex
	rec *schema.RepoAnalysis
}

var _ contract.Publisher = &recordCollector{}

// Publish implements contract.Publisher.
func (c *recordCollector) Publish(a *schema.RepoAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec = a
}

func (c *recordCollector) last() *schema.RepoAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec
}

func (h *toolHandler) handleScanRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if r := request.GetString("ref", ""); r != "" {
		cfg.Ref = r
	}
	if err := contract.RevalidateRepoArg(cfg, request.GetString("repo", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scan parameters: %v", err)), nil
	}

	collector := &recordCollector{}
	analyzer := core.NewAnalyzer(cfg, h.src, h.mgr, collector, nil)
	result, err := analyzer.Scan(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	if !request.GetBool("provisional", false) {
		analyzer.Wait()
		if last := collector.last(); last != nil {
			result = last
		}
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCacheStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil {
		return mcp.NewToolResultError("caching is not configured"), nil
	}
	store := h.mgr.GetAnalysisStore()
	if store == nil {
		return mcp.NewToolResultError("caching is not configured"), nil
	}

	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
