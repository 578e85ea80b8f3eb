package routine

import (
	"math"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// Streaks holds the derived streak counters for one routine.
type Streaks struct {
	Current int
	Max     int
}

// CalculateStreaks derives streak lengths from an unordered list of
// completion dates (YYYY-MM-DD, duplicates tolerated). Current is the
// unbroken run ending at today (UTC) when there is a completion today,
// otherwise the run ending at the most recent completion; Max is the best
// run ever seen. A habit broken yesterday therefore shows its trailing run,
// not a stale historical count.
func CalculateStreaks(dates []string, today time.Time) Streaks {
	if len(dates) == 0 {
		return Streaks{}
	}

	seen := make(map[string]struct{}, len(dates))
	sorted := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		sorted = append(sorted, d)
	}
	// Lexicographic order is chronological order for ISO dates.
	sort.Strings(sorted)

	maxStreak := 1
	run := 1
	for i := 1; i < len(sorted); i++ {
		if isNextDay(sorted[i-1], sorted[i]) {
			run++
		} else {
			run = 1
		}
		if run > maxStreak {
			maxStreak = run
		}
	}

	// The trailing run anchors at the latest completion, capped at today
	// (UTC) so a future-dated entry cannot extend the current run.
	anchor := sorted[len(sorted)-1]
	if todayKey := today.UTC().Format(dateLayout); anchor > todayKey {
		anchor = todayKey
	}
	trailing := countTrailing(sorted, anchor)

	if trailing > maxStreak {
		maxStreak = trailing
	}
	return Streaks{Current: trailing, Max: maxStreak}
}

func parseDay(date string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// isNextDay reports whether current falls exactly one calendar day after
// prev, using UTC-midnight arithmetic rounded to whole days.
func isNextDay(prev, current string) bool {
	p, ok := parseDay(prev)
	if !ok {
		return false
	}
	c, ok := parseDay(current)
	if !ok {
		return false
	}
	return math.Round(c.Sub(p).Hours()/24) == 1
}

// countTrailing counts consecutive dates walking backward from the anchor.
func countTrailing(sorted []string, anchor string) int {
	target, ok := parseDay(anchor)
	if !ok {
		return 0
	}
	count := 0
	for i := len(sorted) - 1; i >= 0; i-- {
		d, ok := parseDay(sorted[i])
		if !ok {
			continue
		}
		if d.Equal(target) {
			count++
			target = target.AddDate(0, 0, -1)
		} else if d.Before(target) {
			break
		}
	}
	return count
}
