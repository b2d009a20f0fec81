package stats

import (
	"sort"
	"time"

	"github.com/Kamar-Folarin/issue-stats/internal/models"
)

// FirstCommitDate anchors the start of the history backfill range. It
// is the day of the default repository's first commit.
var FirstCommitDate = time.Date(2016, time.October, 5, 0, 0, 0, 0, time.UTC)

// AggregateDaily computes, for every calendar day from start through
// today inclusive, the running totals of opened and closed issues. The
// opened total is a net count: an issue closed on day d stops counting
// toward totalOpened on day d, whenever it was created. The closed
// total is cumulative and never decreases.
//
// The result has exactly one entry per day in the range, keyed by
// models.DateLayout. Dates bucket by UTC. The function is pure: same
// issues and same range always produce the same mapping.
func AggregateDaily(issues []models.Issue, start, today time.Time) map[string]models.DayCounts {
	result := make(map[string]models.DayCounts)

	day := truncateToDay(start)
	end := truncateToDay(today)

	opened := 0
	closed := 0

	for !day.After(end) {
		openedToday := 0
		closedToday := 0
		for _, issue := range issues {
			if sameDay(issue.CreatedAt, day) {
				openedToday++
			}
			if issue.ClosedAt != nil && sameDay(*issue.ClosedAt, day) {
				closedToday++
			}
		}

		closed += closedToday
		if openedToday > 0 {
			opened += openedToday
		}
		// Same-day closures net out of the opened total regardless of
		// when the issue was created. Not clamped at zero.
		opened -= closedToday

		result[day.Format(models.DateLayout)] = models.DayCounts{
			TotalOpened: opened,
			TotalClosed: closed,
		}

		day = day.AddDate(0, 0, 1)
	}

	return result
}

// DayStats flattens an aggregation result into rows ordered by date.
func DayStats(counts map[string]models.DayCounts) []*models.DayStat {
	stats := make([]*models.DayStat, 0, len(counts))
	for date, c := range counts {
		stats = append(stats, &models.DayStat{
			Date:        date,
			TotalOpened: c.TotalOpened,
			TotalClosed: c.TotalClosed,
		})
	}
	// Dates in models.DateLayout sort lexicographically.
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date < stats[j].Date
	})
	return stats
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(t, day time.Time) bool {
	return truncateToDay(t).Equal(day)
}
