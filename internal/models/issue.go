package models

import "time"

// Issue holds the two timestamps the aggregation cares about. Pull
// requests are filtered out before an Issue is ever constructed.
type Issue struct {
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// Closed reports whether the issue has a closing timestamp.
func (i Issue) Closed() bool {
	return i.ClosedAt != nil
}
