package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/Kamar-Folarin/issue-stats/internal/models"
)

const (
	defaultBaseURL = "https://api.github.com"
	// perPage is the issues API page size; 100 is the API's maximum.
	perPage = 100
)

// IssueState selects the server-side aggregate queried by CountIssues.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// RateLimitInfo holds information about GitHub API rate limits
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetTime time.Time
	// Add secondary rate limit info
	SecondaryLimitRemaining int
	SecondaryLimitReset     time.Time
}

// GitHubClient represents a client for interacting with the GitHub API
type GitHubClient struct {
	client        *http.Client
	baseURL       string
	token         string
	logger        *logrus.Logger
	rateLimitInfo RateLimitInfo
	// Add backoff configuration
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// ClientOption allows configuring the GitHub client
type ClientOption func(*GitHubClient)

// WithRetryConfig configures retry behavior
func WithRetryConfig(maxRetries int, initialBackoff, maxBackoff time.Duration) ClientOption {
	return func(c *GitHubClient) {
		c.maxRetries = maxRetries
		c.initialBackoff = initialBackoff
		c.maxBackoff = maxBackoff
	}
}

// WithBaseURL overrides the API base URL, mainly for tests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GitHubClient) {
		c.baseURL = baseURL
	}
}

// NewGitHubClient creates a new GitHub client with the given token and options
func NewGitHubClient(token string, logger *logrus.Logger, opts ...ClientOption) *GitHubClient {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 120 * time.Second

	client := &GitHubClient{
		client:         httpClient,
		baseURL:        defaultBaseURL,
		token:          token,
		logger:         logger,
		maxRetries:     3,
		initialBackoff: time.Second,
		maxBackoff:     time.Minute,
	}

	// Apply options
	for _, opt := range opts {
		opt(client)
	}

	return client
}

// updateRateLimitInfo updates the rate limit information from response headers
func (c *GitHubClient) updateRateLimitInfo(resp *http.Response) {
	if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
		c.rateLimitInfo.Limit, _ = strconv.Atoi(limit)
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		c.rateLimitInfo.Remaining, _ = strconv.Atoi(remaining)
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if resetTime, err := strconv.ParseInt(reset, 10, 64); err == nil {
			c.rateLimitInfo.ResetTime = time.Unix(resetTime, 0)
		}
	}

	// Handle secondary rate limits
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if retrySeconds, err := strconv.ParseInt(retryAfter, 10, 64); err == nil {
			c.rateLimitInfo.SecondaryLimitReset = time.Now().Add(time.Duration(retrySeconds) * time.Second)
		}
	}
}

// checkRateLimit checks if we're about to hit rate limits and handles accordingly
func (c *GitHubClient) checkRateLimit() error {
	now := time.Now()

	// Check primary rate limit
	if c.rateLimitInfo.Remaining > 0 && c.rateLimitInfo.Remaining <= 5 { // Buffer of 5 requests
		waitTime := time.Until(c.rateLimitInfo.ResetTime)
		if waitTime > 0 {
			c.logger.Warnf("Primary rate limit nearly exceeded. Waiting %v before next request", waitTime)
			time.Sleep(waitTime)
		}
	}

	// Check secondary rate limit
	if !c.rateLimitInfo.SecondaryLimitReset.IsZero() && now.Before(c.rateLimitInfo.SecondaryLimitReset) {
		waitTime := time.Until(c.rateLimitInfo.SecondaryLimitReset)
		c.logger.Warnf("Secondary rate limit active. Waiting %v before next request", waitTime)
		time.Sleep(waitTime)
	}

	return nil
}

// doRequestWithBackoff performs an HTTP request with exponential backoff
func (c *GitHubClient) doRequestWithBackoff(req *http.Request, result interface{}) error {
	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.checkRateLimit(); err != nil {
			return err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = NewGitHubError(0, "request failed", err)
			c.logger.Warnf("Request attempt %d failed: %v", attempt+1, err)
			time.Sleep(backoff)
			backoff = time.Duration(math.Min(float64(backoff*2), float64(c.maxBackoff)))
			continue
		}

		c.updateRateLimitInfo(resp)

		// Handle rate limit responses
		if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode == http.StatusForbidden && c.rateLimitInfo.Remaining == 0) {
			resp.Body.Close()
			lastErr = NewRateLimitError(c.rateLimitInfo.ResetTime, c.rateLimitInfo.Limit, c.rateLimitInfo.Remaining)
			time.Sleep(backoff)
			backoff = time.Duration(math.Min(float64(backoff*2), float64(c.maxBackoff)))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = NewGitHubError(resp.StatusCode, "failed to read response body", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = NewGitHubError(resp.StatusCode, string(body), nil)
			if resp.StatusCode >= 500 {
				// Retry on server errors
				time.Sleep(backoff)
				backoff = time.Duration(math.Min(float64(backoff*2), float64(c.maxBackoff)))
				continue
			}
			return lastErr
		}

		if result != nil {
			if err := json.Unmarshal(body, result); err != nil {
				return NewGitHubError(resp.StatusCode, "failed to decode response", err)
			}
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// listIssuesPage fetches a single raw page of issues (open and closed)
// for a repository. Pull requests are still present in the result; an
// empty raw page is the fetch's stop signal, so filtering is left to
// the caller.
func (c *GitHubClient) listIssuesPage(ctx context.Context, owner, repo string, page int) ([]issueItem, error) {
	baseURL := fmt.Sprintf("%s/repos/%s/%s/issues", c.baseURL, owner, repo)
	query := url.Values{}
	query.Set("state", "all")
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var items []issueItem
	if err := c.doRequestWithBackoff(req, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// filterPullRequests drops pull requests from a raw page before it is
// accumulated.
func filterPullRequests(items []issueItem) []models.Issue {
	issues := make([]models.Issue, 0, len(items))
	for _, item := range items {
		if item.PullRequest != nil {
			continue
		}
		issues = append(issues, models.Issue{
			CreatedAt: item.CreatedAt,
			ClosedAt:  item.ClosedAt,
		})
	}
	return issues
}

// ListIssues fetches every non-pull-request issue for a repository by
// walking pages sequentially until an empty raw page is returned. Pull
// requests count toward a page being non-empty but are dropped before
// accumulation, so a page consisting only of pull requests does not end
// the fetch. A nonzero maxPages bounds the number of page requests;
// results are silently truncated when the bound is hit. Each fetched
// page is prepended to the accumulated list, so result ordering is
// unspecified relative to creation time.
func (c *GitHubClient) ListIssues(ctx context.Context, owner, repo string, maxPages int) ([]models.Issue, error) {
	if owner == "" {
		return nil, NewValidationError("owner", "cannot be empty")
	}
	if repo == "" {
		return nil, NewValidationError("repo", "cannot be empty")
	}

	logger := c.logger.WithFields(logrus.Fields{
		"owner":     owner,
		"repo":      repo,
		"max_pages": maxPages,
	})
	logger.Info("Starting to fetch issues from GitHub API")

	var issues []models.Issue
	page := 1

	for {
		items, err := c.listIssuesPage(ctx, owner, repo, page)
		if err != nil {
			logger.WithError(err).WithField("page", page).Error("Failed to fetch issues page")
			return nil, err
		}

		if len(items) == 0 {
			logger.WithField("page", page).Info("No more issues to fetch")
			break
		}

		pageIssues := filterPullRequests(items)
		issues = append(pageIssues, issues...)

		logger.WithFields(logrus.Fields{
			"page":         page,
			"items_found":  len(items),
			"issues_found": len(pageIssues),
			"total_issues": len(issues),
		}).Info("Fetched issues page")

		if maxPages > 0 && page >= maxPages {
			logger.WithField("max_pages", maxPages).Info("Reached page limit, truncating fetch")
			break
		}

		page++
	}

	logger.WithField("total_issues", len(issues)).Info("Completed fetching issues")
	return issues, nil
}

// CountIssues returns GitHub's own aggregate count of issues in the
// given state, via the search API.
func (c *GitHubClient) CountIssues(ctx context.Context, owner, repo string, state IssueState) (int, error) {
	if owner == "" {
		return 0, NewValidationError("owner", "cannot be empty")
	}
	if repo == "" {
		return 0, NewValidationError("repo", "cannot be empty")
	}

	query := url.Values{}
	query.Set("q", fmt.Sprintf("repo:%s/%s is:issue is:%s", owner, repo, state))
	query.Set("per_page", "1")

	searchURL := fmt.Sprintf("%s/search/issues?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	var result searchResult
	if err := c.doRequestWithBackoff(req, &result); err != nil {
		return 0, err
	}

	return result.TotalCount, nil
}
