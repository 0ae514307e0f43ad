package access

import (
	"fmt"
	"time"

	"ecobrinca/internal/domain/users"
)

// FreeWeeklyLimit is how many videos a free user may start per quota period.
const FreeWeeklyLimit = 3

// PeriodKey names the quota period containing t: the ISO week in UTC,
// e.g. "2026-W42". Counts stored under any other key are stale.
func PeriodKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// PeriodEnd is the instant the period containing t ends (next Monday 00:00 UTC).
func PeriodEnd(t time.Time) time.Time {
	t = t.UTC()
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysSinceMonday)
	return monday.AddDate(0, 0, 7)
}

// EffectiveWatchCount is the user's count for period; a count stored under
// an older period no longer applies.
func EffectiveWatchCount(u users.User, period string) int {
	if u.QuotaPeriod != period || u.WatchCount < 0 {
		return 0
	}
	return u.WatchCount
}

// Remaining is limit - watched, floored at 0.
func Remaining(watched int) int {
	if r := FreeWeeklyLimit - watched; r > 0 {
		return r
	}
	return 0
}
