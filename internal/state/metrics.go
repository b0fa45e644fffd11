package state

import "time"

const (
	maxErrorEntries   = 50
	maxHistoryEntries = 90
)

// ErrorEntry is one bounded-log failure record.
type ErrorEntry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// DailyEntry is one day's post count in the bounded history.
type DailyEntry struct {
	Date  string `json:"date"`
	Posts int    `json:"posts"`
}

// Metrics holds cumulative posting counters. Daily counters are keyed
// to the UTC date and reset when it rolls over.
type Metrics struct {
	TotalPosts   int            `json:"total_posts"`
	PostsToday   int            `json:"posts_today"`
	LastPostDate string         `json:"last_post_date,omitempty"`
	FormatsUsed  map[string]int `json:"formats_used"`
	SourcesUsed  map[string]int `json:"sources_used"`
	Errors       []ErrorEntry   `json:"errors"`
	DailyHistory []DailyEntry   `json:"daily_history"`
}

// NewMetrics returns zeroed metrics with initialized containers.
func NewMetrics() *Metrics {
	return &Metrics{
		FormatsUsed:  map[string]int{},
		SourcesUsed:  map[string]int{},
		Errors:       []ErrorEntry{},
		DailyHistory: []DailyEntry{},
	}
}

func utcDate(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// Rollover resets posts_today when the UTC date has changed since the
// last recorded post.
func (m *Metrics) Rollover(now time.Time) {
	if today := utcDate(now); m.LastPostDate != today {
		m.PostsToday = 0
	}
}

// RecordPost counts a successful publish for the current UTC day.
func (m *Metrics) RecordPost(format, source string, now time.Time) {
	m.Rollover(now)
	today := utcDate(now)

	m.TotalPosts++
	m.PostsToday++
	m.LastPostDate = today

	if m.FormatsUsed == nil {
		m.FormatsUsed = map[string]int{}
	}
	if m.SourcesUsed == nil {
		m.SourcesUsed = map[string]int{}
	}
	if format != "" {
		m.FormatsUsed[format]++
	}
	if source != "" {
		m.SourcesUsed[source]++
	}

	if n := len(m.DailyHistory); n > 0 && m.DailyHistory[n-1].Date == today {
		m.DailyHistory[n-1].Posts++
	} else {
		m.DailyHistory = append(m.DailyHistory, DailyEntry{Date: today, Posts: 1})
		if len(m.DailyHistory) > maxHistoryEntries {
			m.DailyHistory = m.DailyHistory[len(m.DailyHistory)-maxHistoryEntries:]
		}
	}
}

// RecordError appends to the bounded error log without touching the
// post counters.
func (m *Metrics) RecordError(msg string, now time.Time) {
	m.Errors = append(m.Errors, ErrorEntry{At: now, Message: msg})
	if len(m.Errors) > maxErrorEntries {
		m.Errors = m.Errors[len(m.Errors)-maxErrorEntries:]
	}
}
