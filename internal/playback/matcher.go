package playback

import (
	"strconv"
	"strings"
	"time"

	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

// Matches reports whether a schedule covers the given instant. Date bounds are
// compared at day granularity, the weekday set is ignored when empty, and the
// minute-of-day window is inclusive at both ends.
//
// Known limitation, kept on purpose: a window whose end time is before its
// start time never matches. Schedules do not wrap around midnight, and fleets
// in the field rely on that.
//
// Malformed "HH:MM" strings make the schedule non-matching rather than failing
// the whole resolution.
func Matches(s model.Schedule, at time.Time) bool {
	if s.StartDate != nil && dateOf(at).Before(dateOf(*s.StartDate)) {
		return false
	}
	if s.EndDate != nil && dateOf(at).After(dateOf(*s.EndDate)) {
		return false
	}

	if len(s.DaysOfWeek) > 0 {
		weekday := int64(at.Weekday()) // 0=Sunday, matching the stored values
		found := false
		for _, d := range s.DaysOfWeek {
			if d == weekday {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	start, ok := minuteOfDay(s.StartTime)
	if !ok {
		return false
	}
	end, ok := minuteOfDay(s.EndTime)
	if !ok {
		return false
	}

	m := at.Hour()*60 + at.Minute()
	return start <= m && m <= end
}

// minuteOfDay parses "HH:MM" into minutes since midnight.
func minuteOfDay(hhmm string) (int, bool) {
	h, m, found := strings.Cut(hhmm, ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// dateOf strips the time-of-day component for day-granularity comparison.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
