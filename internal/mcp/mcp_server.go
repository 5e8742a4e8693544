// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/slopscan/slopscan/internal/contract"
)

// NewMCPServer initializes and configures the slopscan MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, src contract.RepoSource, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Slopscan Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		src:     src,
		mgr:     mgr,
	}

	// --- 1. Tool: scan_repository ---
	s.AddTool(mcp.NewTool("scan_repository",
		mcp.WithDescription("Score a GitHub repository for AI-slop likelihood (0-100) with indicators and a feature breakdown."),
		mcp.WithString("repo", mcp.Description("Repository as owner/repo or a github.com URL."), mcp.Required()),
		mcp.WithString("ref", mcp.Description("Branch or commit SHA to analyze (defaults to the default branch).")),
		mcp.WithBoolean("provisional", mcp.Description("Return the quick commit-pass result without waiting for deep analysis.")),
	), h.handleScanRepository)

	// --- 2. Tool: cache_status ---
	s.AddTool(mcp.NewTool("cache_status",
		mcp.WithDescription("Report the state of the analysis cache store."),
	), h.handleCacheStatus)

	return s
}

// StartMCPServer starts the slopscan MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, src contract.RepoSource, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, src, mgr)
	return server.ServeStdio(s)
}
