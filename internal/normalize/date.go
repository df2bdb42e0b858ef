package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Date converts a day-first "day.month" string into a calendar date.
// The year is taken from ref. A date that already passed rolls over to the
// next year unless its month equals ref's month: offers trailing a few days
// within the current month stay as-is, while "30.12" seen in January means
// the past December, not the next one. Returns nil for empty or malformed
// input.
func Date(raw string, ref time.Time) *time.Time {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 2 {
		return nil
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil
	}

	parsed := time.Date(ref.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date silently normalizes impossible dates like 31.02
	if parsed.Day() != day || parsed.Month() != time.Month(month) {
		return nil
	}

	today := CivilDate(ref)
	if parsed.Before(today) && parsed.Month() != today.Month() {
		parsed = parsed.AddDate(1, 0, 0)
	}

	return lo.ToPtr(parsed)
}

// CivilDate truncates t to its UTC calendar date.
func CivilDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
