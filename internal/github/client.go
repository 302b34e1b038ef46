// Package github provides best-effort repository metadata lookups. Every
// failure mode degrades to "no metadata"; nothing here is ever fatal to a
// sync run.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 10 * time.Second
)

// Handles https://github.com/owner/repo with optional trailing slash and
// optional .git suffix. Owner-only paths and foreign hosts do not match.
var repoURLPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)

// ParseRepoURL extracts the owner and repository name from a GitHub
// repository URL. ok is false for blank input, non-GitHub hosts, and
// owner-only paths; the function never fails.
func ParseRepoURL(url string) (owner, repo string, ok bool) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return "", "", false
	}
	match := repoURLPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return "", "", false
	}
	return match[1], match[2], true
}

// RepoMeta carries the repository statistics surfaced on project records.
type RepoMeta struct {
	Stars        int
	Language     *string
	Forks        int
	LastPushedAt *time.Time
}

// Config captures the options for the metadata client.
type Config struct {
	// Token is attached as a bearer credential when non-empty.
	Token string
	// Timeout bounds the single lookup request. Defaults to 10s.
	Timeout time.Duration
	// BaseURL overrides the API endpoint, primarily for tests.
	BaseURL string
	// HTTPClient overrides the underlying client. When nil one is built
	// from Timeout.
	HTTPClient *http.Client
	Logger     interfaces.Logger
}

// Client fetches repository metadata from the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  interfaces.Logger
}

// NewClient builds a metadata client from the supplied configuration.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Client{
		baseURL: baseURL,
		token:   cfg.Token,
		http:    httpClient,
		logger:  logger,
	}
}

// FetchRepoMetadata performs a single bounded lookup for the repository the
// URL points at. It returns nil without touching the network when the URL is
// not a GitHub repository reference, and nil with a warning log on timeout,
// transport error, or any non-200 response.
func (c *Client) FetchRepoMetadata(ctx context.Context, repoURL string) *RepoMeta {
	owner, repo, ok := ParseRepoURL(repoURL)
	if !ok {
		return nil
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("github.metadata.request_build_failed", "repo_url", repoURL, "error", err)
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("github.metadata.request_failed", "repo_url", repoURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("github.metadata.unexpected_status", "repo_url", repoURL, "status", resp.StatusCode)
		return nil
	}

	var payload struct {
		StargazersCount int     `json:"stargazers_count"`
		Language        *string `json:"language"`
		ForksCount      int     `json:"forks_count"`
		PushedAt        string  `json:"pushed_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("github.metadata.decode_failed", "repo_url", repoURL, "error", err)
		return nil
	}

	meta := &RepoMeta{
		Stars:    payload.StargazersCount,
		Language: payload.Language,
		Forks:    payload.ForksCount,
	}

	// An unparsable or absent timestamp drops the field, never the call.
	if payload.PushedAt != "" {
		if pushed, err := time.Parse(time.RFC3339, payload.PushedAt); err == nil {
			utc := pushed.UTC()
			meta.LastPushedAt = &utc
		}
	}

	return meta
}
