package pipeline

import "time"

type systemClock struct{}

// Now returns current UTC time.
func (c systemClock) Now() *time.Time {
	t := time.Now().UTC()
	return &t
}

// Today returns current UTC calendar date.
func (c systemClock) Today() time.Time {
	year, month, day := time.Now().UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
