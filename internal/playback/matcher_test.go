package playback

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

// Tuesday 10:00 local, used across matcher tests.
var tuesdayMorning = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

func TestMatchesMinuteWindow(t *testing.T) {
	s := schedule("09:00", "17:00")

	assert.True(t, Matches(s, tuesdayMorning))
	assert.True(t, Matches(s, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)), "window start is inclusive")
	assert.True(t, Matches(s, time.Date(2025, 6, 10, 17, 0, 0, 0, time.UTC)), "window end is inclusive")
	assert.False(t, Matches(s, time.Date(2025, 6, 10, 8, 59, 0, 0, time.UTC)))
	assert.False(t, Matches(s, time.Date(2025, 6, 10, 17, 1, 0, 0, time.UTC)))
}

func TestMatchesNeverWrapsMidnight(t *testing.T) {
	// end before start: the window never matches, even at instants that a
	// wrapping interpretation would cover
	s := schedule("22:00", "02:00")

	assert.False(t, Matches(s, time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)))
	assert.False(t, Matches(s, time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)))
	assert.False(t, Matches(s, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)))
}

func TestMatchesDaysOfWeek(t *testing.T) {
	weekdays := schedule("09:00", "17:00", 1, 2, 3, 4, 5)

	assert.True(t, Matches(weekdays, tuesdayMorning))
	saturday := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	assert.False(t, Matches(weekdays, saturday))

	everyDay := schedule("09:00", "17:00")
	assert.True(t, Matches(everyDay, saturday), "empty day set means every day")
}

func TestMatchesDateBounds(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	s := schedule("00:00", "23:59")
	s.StartDate = &start
	s.EndDate = &end

	assert.True(t, Matches(s, tuesdayMorning))
	assert.True(t, Matches(s, time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)), "end date is inclusive at day granularity")
	assert.False(t, Matches(s, time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC)))
	assert.False(t, Matches(s, time.Date(2025, 7, 1, 0, 30, 0, 0, time.UTC)))
}

func TestMatchesMalformedTimes(t *testing.T) {
	for _, bad := range []string{"", "nine", "9", "24:00", "12:60", "12:xx", "12-30"} {
		s := schedule(bad, "17:00")
		assert.False(t, Matches(s, tuesdayMorning), "start %q must be non-matching", bad)

		s = schedule("09:00", bad)
		assert.False(t, Matches(s, tuesdayMorning), "end %q must be non-matching", bad)
	}
}

// referenceMatches is an independent re-derivation of the matcher semantics,
// used to cross-check randomized schedules.
func referenceMatches(s model.Schedule, at time.Time) bool {
	day := func(t time.Time) int {
		return t.Year()*10000 + int(t.Month())*100 + t.Day()
	}
	if s.StartDate != nil && day(at) < day(*s.StartDate) {
		return false
	}
	if s.EndDate != nil && day(at) > day(*s.EndDate) {
		return false
	}
	if len(s.DaysOfWeek) > 0 {
		ok := false
		for _, d := range s.DaysOfWeek {
			ok = ok || int(d) == int(at.Weekday())
		}
		if !ok {
			return false
		}
	}
	var sh, sm, eh, em int
	if _, err := fmt.Sscanf(s.StartTime, "%d:%d", &sh, &sm); err != nil {
		return false
	}
	if _, err := fmt.Sscanf(s.EndTime, "%d:%d", &eh, &em); err != nil {
		return false
	}
	if sh < 0 || sh > 23 || sm < 0 || sm > 59 || eh < 0 || eh > 23 || em < 0 || em > 59 {
		return false
	}
	minute := at.Hour()*60 + at.Minute()
	return sh*60+sm <= minute && minute <= eh*60+em
}

func TestMatchesAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		s := schedule(
			fmt.Sprintf("%02d:%02d", rng.Intn(24), rng.Intn(60)),
			fmt.Sprintf("%02d:%02d", rng.Intn(24), rng.Intn(60)),
		)
		for d := int64(0); d < 7; d++ {
			if rng.Intn(3) == 0 {
				s.DaysOfWeek = append(s.DaysOfWeek, d)
			}
		}
		if rng.Intn(2) == 0 {
			d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rng.Intn(365))
			s.StartDate = &d
		}
		if rng.Intn(2) == 0 {
			d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rng.Intn(365))
			s.EndDate = &d
		}

		at := time.Date(2025, 1, 1, rng.Intn(24), rng.Intn(60), rng.Intn(60), 0, time.UTC).
			AddDate(0, 0, rng.Intn(365))

		assert.Equal(t, referenceMatches(s, at), Matches(s, at),
			"schedule %+v at %s", s, at)
	}
}
