package core

import (
	"path"
	"testing"

	"github.com/slopscan/slopscan/schema"
	"github.com/stretchr/testify/assert"
)

func fileNode(p string) schema.FileNode {
	return schema.FileNode{Name: path.Base(p), Path: p, Type: schema.FileNodeType}
}

func TestDetectConfigFilesSingleMatch(t *testing.T) {
	nodes := []schema.FileNode{fileNode(".cursorrules"), fileNode("README.md")}
	result := detectConfigFiles(nodes)

	assert.True(t, result.Found)
	assert.Equal(t, []string{".cursorrules"}, result.Files)
	assert.Equal(t, schema.MediumSeverity, result.Severity)
	assert.InDelta(t, 0.5, result.Signal, 1e-9)
	assert.Len(t, result.Indicators, 1)
}

func TestDetectConfigFilesMultipleMatches(t *testing.T) {
	nodes := []schema.FileNode{
		fileNode(".cursorrules"),
		fileNode("CLAUDE.md"),
		fileNode("main.go"),
	}
	result := detectConfigFiles(nodes)

	assert.True(t, result.Found)
	assert.Equal(t, schema.HighSeverity, result.Severity)
	assert.Equal(t, 1.0, result.Signal)
	assert.Len(t, result.Indicators, 2)
}

func TestDetectConfigFilesNested(t *testing.T) {
	nodes := []schema.FileNode{fileNode(".github/copilot-instructions.md")}
	result := detectConfigFiles(nodes)

	assert.True(t, result.Found)
	assert.Equal(t, []string{".github/copilot-instructions.md"}, result.Files)
}

func TestDetectConfigFilesNone(t *testing.T) {
	nodes := []schema.FileNode{
		fileNode("README.md"),
		fileNode("src/index.ts"),
		{Name: ".claude", Path: ".claude", Type: schema.DirNodeType},
	}
	result := detectConfigFiles(nodes)

	assert.False(t, result.Found)
	assert.Empty(t, result.Files)
	assert.Equal(t, schema.LowSeverity, result.Severity)
	assert.Equal(t, 0.0, result.Signal)
}
