package github

import "time"

// issueItem is the subset of the issues API response the service reads.
// The pull_request key is only present on items that are pull requests.
type issueItem struct {
	Number      int        `json:"number"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request,omitempty"`
}

// searchResult carries the server-side aggregate count from the search API.
type searchResult struct {
	TotalCount        int  `json:"total_count"`
	IncompleteResults bool `json:"incomplete_results"`
}
