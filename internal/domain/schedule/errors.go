package schedule

import "errors"

var (
	// ErrScheduleNotFound covers both a missing schedule and a schedule the
	// requester does not own. The two are deliberately indistinguishable so
	// non-owners cannot probe for existing schedule ids.
	ErrScheduleNotFound = errors.New("schedule not found or not permitted")

	ErrCandidateNotFound = errors.New("candidate not found")
)
