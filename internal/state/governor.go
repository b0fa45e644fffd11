package state

import "time"

// Governor decides whether a publish attempt is currently allowed
// based on the persisted posting history.
type Governor struct {
	// Bypass waves every check through. Dry runs and explicit
	// test-mode runs set it; there is no separate escape hatch per
	// rule.
	Bypass bool

	MaxPostsPerDay int
	MinInterval    time.Duration
	ErrorCooldown  time.Duration
}

// Denial reasons returned by MayPostNow.
const (
	ReasonBypassed      = "rate limits bypassed"
	ReasonAllowed       = "allowed"
	ReasonDailyLimit    = "daily limit reached"
	ReasonTooSoon       = "too soon since last post"
	ReasonErrorCooldown = "error cooldown"
)

// MayPostNow evaluates the rules in order; the first matching rule
// wins.
func (g *Governor) MayPostNow(st *PostedState, m *Metrics, now time.Time) (bool, string) {
	if g.Bypass {
		return true, ReasonBypassed
	}

	m.Rollover(now)
	if g.MaxPostsPerDay > 0 && m.PostsToday >= g.MaxPostsPerDay {
		return false, ReasonDailyLimit
	}

	if st.LastPostedAt != nil && g.MinInterval > 0 && now.Sub(*st.LastPostedAt) < g.MinInterval {
		return false, ReasonTooSoon
	}

	if st.LastErrorAt != nil && g.ErrorCooldown > 0 && now.Sub(*st.LastErrorAt) < g.ErrorCooldown {
		return false, ReasonErrorCooldown
	}

	return true, ReasonAllowed
}

// RecordSuccess updates state and metrics after a published post.
func (g *Governor) RecordSuccess(st *PostedState, m *Metrics, link, fingerprint, postID, format, source string, now time.Time) {
	st.AddPost(link, fingerprint, postID, format, now)
	m.RecordPost(format, source, now)
}

// RecordFailure notes a failed attempt; post counters are untouched.
func (g *Governor) RecordFailure(st *PostedState, m *Metrics, msg string, now time.Time) {
	st.RecordError(msg, now)
	m.RecordError(msg, now)
}
