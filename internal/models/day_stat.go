package models

// DateLayout is the key format for day records, a calendar date with no
// time component.
const DateLayout = "2006-01-02"

// DayCounts is the pair of running totals computed for a single day.
type DayCounts struct {
	TotalOpened int `json:"totalOpened"`
	TotalClosed int `json:"totalClosed"`
}

// DayStat is one persisted row of issue history: the running totals as
// of the end of the given calendar date.
type DayStat struct {
	Date        string `json:"date"`
	TotalOpened int    `json:"totalOpened"`
	TotalClosed int    `json:"totalClosed"`
}
