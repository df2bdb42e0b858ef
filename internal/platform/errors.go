package platform

import (
	"errors"
)

var (
	// ErrAlreadyRunning is an error returned when a run can't be started because the previous run is not finished yet.
	ErrAlreadyRunning = errors.New("combine run already in progress")
	// ErrNoScrapedData is an error returned when every refreshed source produced zero offers.
	ErrNoScrapedData = errors.New("no scraped data - aborting storage changes")
)
