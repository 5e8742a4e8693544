// Package github implements the repository data source on the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	gopath "path"
	"time"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/schema"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

const apiVersion = "2022-11-28"

// Client is a RepoSource backed by the GitHub REST API. It does not retry
// and does not enforce timeouts; a hung request occupies its caller's worker
// slot only.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

var _ contract.RepoSource = &Client{}

// NewClient builds a client. token may be empty for anonymous access, which
// GitHub rate-limits aggressively.
func NewClient(token string) *Client {
	return &Client{baseURL: DefaultBaseURL, token: token, httpc: &http.Client{}}
}

// NewClientWithBaseURL builds a client against a non-default endpoint, e.g.
// a GitHub Enterprise instance or a test server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{baseURL: baseURL, token: token, httpc: &http.Client{}}
}

type repoInfoPayload struct {
	Name string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	DefaultBranch   string    `json:"default_branch"`
	CreatedAt       time.Time `json:"created_at"`
	StargazersCount int       `json:"stargazers_count"`
}

type commitPayload struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Files []struct {
		Filename string `json:"filename"`
	} `json:"files"`
}

type treePayload struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// GetRepoInfo implements contract.RepoSource.
func (c *Client) GetRepoInfo(ctx context.Context, owner, repo string) (schema.RepoInfo, error) {
	var payload repoInfoPayload
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return schema.RepoInfo{}, err
	}
	return schema.RepoInfo{
		Owner:         payload.Owner.Login,
		Name:          payload.Name,
		DefaultBranch: payload.DefaultBranch,
		CreatedAt:     payload.CreatedAt,
		StarCount:     payload.StargazersCount,
	}, nil
}

// GetCommitHistory implements contract.RepoSource. One page, newest first.
// The list endpoint does not report changed files, so ChangedFiles stays zero
// unless the payload happens to carry them.
func (c *Client) GetCommitHistory(ctx context.Context, owner, repo string) ([]schema.Commit, error) {
	var payload []commitPayload
	url := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=%d", c.baseURL, owner, repo, contract.DefaultCommitPageSize)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	commits := make([]schema.Commit, 0, len(payload))
	for _, p := range payload {
		commits = append(commits, schema.Commit{
			SHA:          p.SHA,
			Message:      p.Commit.Message,
			AuthorDate:   p.Commit.Author.Date,
			ChangedFiles: len(p.Files),
		})
	}
	return commits, nil
}

// GetFileTree implements contract.RepoSource using the recursive tree API.
func (c *Client) GetFileTree(ctx context.Context, owner, repo, ref string) ([]schema.FileNode, error) {
	var payload treePayload
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.baseURL, owner, repo, ref)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if payload.Truncated {
		contract.LogWarn("fetching file tree", fmt.Errorf("listing for %s/%s@%s truncated by the API", owner, repo, ref))
	}

	nodes := make([]schema.FileNode, 0, len(payload.Tree))
	for _, entry := range payload.Tree {
		nodeType := schema.FileNodeType
		if entry.Type == "tree" {
			nodeType = schema.DirNodeType
		}
		nodes = append(nodes, schema.FileNode{
			Name: gopath.Base(entry.Path),
			Path: entry.Path,
			Type: nodeType,
			URL:  entry.URL,
		})
	}
	return nodes, nil
}

// GetFileContent implements contract.RepoSource, asking the contents API for
// the raw representation.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", c.baseURL, owner, repo, path, ref)
	body, err := c.get(ctx, url, "application/vnd.github.raw+json")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// getJSON fetches and decodes a JSON endpoint.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	body, err := c.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return contract.NewSourceError(contract.RemoteAPIError, "GitHub returned an unreadable response", err)
	}
	return nil
}

// get performs one request and maps failures onto the error taxonomy.
func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, contract.NewSourceError(contract.TransportError, "building GitHub request failed", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, contract.NewSourceError(contract.TransportError, "network failure calling GitHub", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, contract.NewSourceError(contract.TransportError, "reading GitHub response failed", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, categorizeStatus(resp)
}

// categorizeStatus maps a non-2xx response onto the error taxonomy.
func categorizeStatus(resp *http.Response) error {
	status := resp.StatusCode
	switch {
	case status == http.StatusTooManyRequests,
		status == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return contract.NewSourceError(contract.RateLimited, "GitHub API rate limit exceeded; add a token or wait", nil)
	case status == http.StatusUnauthorized, status == http.StatusNotFound, status == http.StatusForbidden:
		return contract.NewSourceError(contract.AuthRequiredOrNotFound, "repository not found or requires authentication", nil)
	default:
		return contract.NewSourceError(contract.RemoteAPIError, fmt.Sprintf("GitHub API returned status %d", status), nil)
	}
}
