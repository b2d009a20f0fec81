package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T, handler http.Handler) (*GitHubClient, *httptest.Server) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewGitHubClient(
		"test-token",
		logger,
		WithBaseURL(server.URL),
		WithRetryConfig(2, time.Millisecond, 10*time.Millisecond),
	)

	return client, server
}

func issuePageJSON(t *testing.T, items []map[string]interface{}) []byte {
	t.Helper()
	body, err := json.Marshal(items)
	require.NoError(t, err)
	return body
}

func TestGitHubClient_ListIssues(t *testing.T) {
	ctx := context.Background()

	t.Run("walks pages until an empty page and filters pull requests", func(t *testing.T) {
		var pagesRequested []string
		client, _ := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/repos/test-owner/test-repo/issues", r.URL.Path)
			assert.Equal(t, "all", r.URL.Query().Get("state"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			page := r.URL.Query().Get("page")
			pagesRequested = append(pagesRequested, page)

			w.Header().Set("Content-Type", "application/json")
			switch page {
			case "1":
				w.Write(issuePageJSON(t, []map[string]interface{}{
					{"number": 1, "created_at": "2016-10-05T10:00:00Z", "closed_at": "2016-10-06T10:00:00Z"},
					{"number": 2, "created_at": "2016-10-05T11:00:00Z", "pull_request": map[string]string{"url": "https://api.github.com/pr/2"}},
					{"number": 3, "created_at": "2016-10-06T09:00:00Z"},
				}))
			case "2":
				w.Write(issuePageJSON(t, []map[string]interface{}{
					{"number": 4, "created_at": "2016-10-07T09:00:00Z"},
				}))
			default:
				w.Write([]byte(`[]`))
			}
		}))

		issues, err := client.ListIssues(ctx, "test-owner", "test-repo", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, pagesRequested)

		// The pull request is dropped, and the later page's issues come first.
		require.Len(t, issues, 3)
		assert.Equal(t, time.Date(2016, 10, 7, 9, 0, 0, 0, time.UTC), issues[0].CreatedAt)
		assert.Equal(t, time.Date(2016, 10, 5, 10, 0, 0, 0, time.UTC), issues[1].CreatedAt)
		require.NotNil(t, issues[1].ClosedAt)
		assert.Equal(t, time.Date(2016, 10, 6, 10, 0, 0, 0, time.UTC), *issues[1].ClosedAt)
		assert.Nil(t, issues[2].ClosedAt)
	})

	t.Run("a page of only pull requests does not end the fetch", func(t *testing.T) {
		var pagesRequested []string
		client, _ := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			page := r.URL.Query().Get("page")
			pagesRequested = append(pagesRequested, page)

			w.Header().Set("Content-Type", "application/json")
			switch page {
			case "1":
				w.Write(issuePageJSON(t, []map[string]interface{}{
					{"number": 1, "created_at": "2016-10-05T10:00:00Z", "pull_request": map[string]string{"url": "https://api.github.com/pr/1"}},
					{"number": 2, "created_at": "2016-10-05T11:00:00Z", "pull_request": map[string]string{"url": "https://api.github.com/pr/2"}},
				}))
			case "2":
				w.Write(issuePageJSON(t, []map[string]interface{}{
					{"number": 3, "created_at": "2016-10-06T09:00:00Z"},
				}))
			default:
				w.Write([]byte(`[]`))
			}
		}))

		issues, err := client.ListIssues(ctx, "test-owner", "test-repo", 0)
		require.NoError(t, err)

		// The raw page was non-empty, so the walk continues past it.
		assert.Equal(t, []string{"1", "2", "3"}, pagesRequested)
		require.Len(t, issues, 1)
		assert.Equal(t, time.Date(2016, 10, 6, 9, 0, 0, 0, time.UTC), issues[0].CreatedAt)
	})

	t.Run("page ceiling truncates the fetch without error", func(t *testing.T) {
		requests := 0
		client, _ := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.Write(issuePageJSON(t, []map[string]interface{}{
				{"number": requests, "created_at": "2016-10-05T10:00:00Z"},
			}))
		}))

		issues, err := client.ListIssues(ctx, "test-owner", "test-repo", 2)
		require.NoError(t, err)
		assert.Equal(t, 2, requests)
		assert.Len(t, issues, 2)
	})

	t.Run("a failed page aborts the whole fetch with no partial result", func(t *testing.T) {
		client, _ := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "1" {
				w.Write(issuePageJSON(t, []map[string]interface{}{
					{"number": 1, "created_at": "2016-10-05T10:00:00Z"},
				}))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))

		issues, err := client.ListIssues(ctx, "test-owner", "test-repo", 0)
		assert.Error(t, err)
		assert.Nil(t, issues)
	})

	t.Run("validation error on empty owner or repo", func(t *testing.T) {
		client, _ := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))

		_, err := client.ListIssues(ctx, "", "test-repo", 0)
		assert.IsType(t, &ValidationError{}, err)

		_, err = client.ListIssues(ctx, "test-owner", "", 0)
		assert.IsType(t, &ValidationError{}, err)
	})
}

func TestGitHubClient_CountIssues(t *testing.T) {
	ctx := context.Background()

	t.Run("reads the server-side aggregate from the search API", func(t *testing.T) {
		client, _ := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search/issues", r.URL.Path)
			assert.Equal(t, "repo:test-owner/test-repo is:issue is:open", r.URL.Query().Get("q"))
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))

			w.Write([]byte(`{"total_count": 420, "incomplete_results": false}`))
		}))

		count, err := client.CountIssues(ctx, "test-owner", "test-repo", IssueStateOpen)
		require.NoError(t, err)
		assert.Equal(t, 420, count)
	})

	t.Run("closed state is queried as-is", func(t *testing.T) {
		client, _ := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Query().Get("q"), "is:closed")
			w.Write([]byte(`{"total_count": 9000}`))
		}))

		count, err := client.CountIssues(ctx, "test-owner", "test-repo", IssueStateClosed)
		require.NoError(t, err)
		assert.Equal(t, 9000, count)
	})

	t.Run("API failure propagates", func(t *testing.T) {
		client, _ := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))

		_, err := client.CountIssues(ctx, "test-owner", "test-repo", IssueStateOpen)
		assert.Error(t, err)
	})
}

func TestGitHubClient_RetriesServerErrors(t *testing.T) {
	attempts := 0
	client, _ := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))

	issues, err := client.ListIssues(context.Background(), "test-owner", "test-repo", 0)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 2, attempts)
}
