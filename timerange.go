package campus

import "time"

// TimeRange is a bucket of the chat history sidebar. Buckets do not overlap:
// Within7Days excludes today and yesterday, Within30Days excludes all three
// earlier buckets.
type TimeRange int

const (
	Today        TimeRange = iota // [midnight, midnight+1d)
	Yesterday                     // [midnight-1d, midnight)
	Within7Days                   // [midnight-8d, midnight-1d)
	Within30Days                  // [midnight-38d, midnight-8d)
)

// TimeRanges lists the buckets in display order.
var TimeRanges = []TimeRange{Today, Yesterday, Within7Days, Within30Days}

// String returns the sidebar label of the bucket.
func (r TimeRange) String() string {
	switch r {
	case Today:
		return "Today"
	case Yesterday:
		return "Yesterday"
	case Within7Days:
		return "Previous 7 days"
	case Within30Days:
		return "Previous 30 days"
	default:
		return "Unknown"
	}
}

// bounds returns the half-open interval [start, end) of r relative to the
// local midnight of now.
func (r TimeRange) bounds(now time.Time) (start, end time.Time, ok bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := func(n int) time.Time { return midnight.AddDate(0, 0, n) }
	switch r {
	case Today:
		return midnight, day(1), true
	case Yesterday:
		return day(-1), midnight, true
	case Within7Days:
		return day(-8), day(-1), true
	case Within30Days:
		return day(-38), day(-8), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// InTimeRange reports whether t falls in bucket r as seen at now. Day
// boundaries are calendar days in now's location. A zero t is never in range.
func InTimeRange(t time.Time, r TimeRange, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	start, end, ok := r.bounds(now)
	if !ok {
		return false
	}
	return !t.Before(start) && t.Before(end)
}

// SessionGroup is a non-empty bucket of history sessions.
type SessionGroup struct {
	Range    TimeRange
	Sessions []ChatSession
}

// GroupSessions buckets sessions by CreatedAt in display order, keeping the
// input order within each bucket. Empty buckets and sessions older than
// every bucket are omitted.
func GroupSessions(sessions []ChatSession, now time.Time) []SessionGroup {
	var groups []SessionGroup
	for _, r := range TimeRanges {
		var in []ChatSession
		for _, s := range sessions {
			if InTimeRange(s.CreatedAt, r, now) {
				in = append(in, s)
			}
		}
		if len(in) > 0 {
			groups = append(groups, SessionGroup{Range: r, Sessions: in})
		}
	}
	return groups
}
