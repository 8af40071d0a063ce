package schedule

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetSchedule(ctx context.Context, scheduleID string) (*Schedule, error)
	ListSchedulesByOwner(ctx context.Context, userID int64) ([]Schedule, error)
	CreateSchedule(ctx context.Context, schedule *Schedule) error
	UpdateSchedule(ctx context.Context, schedule *Schedule) error
	// DeleteSchedule reports whether a row was actually removed so a lost
	// delete race can surface as not-found.
	DeleteSchedule(ctx context.Context, scheduleID string) (bool, error)

	CreateCandidates(ctx context.Context, candidates []Candidate) error
	// ListCandidates returns the schedule's candidates ordered by
	// candidate_id ascending.
	ListCandidates(ctx context.Context, scheduleID string) ([]Candidate, error)
	GetCandidate(ctx context.Context, scheduleID string, candidateID int64) (*Candidate, error)
	DeleteCandidates(ctx context.Context, scheduleID string) error

	// ListAvailabilityRows returns the schedule's availability records
	// joined to usernames, ordered by username ascending then candidate_id
	// ascending.
	ListAvailabilityRows(ctx context.Context, scheduleID string) ([]AvailabilityRow, error)
	UpsertAvailability(ctx context.Context, availability *Availability) error
	DeleteAvailabilities(ctx context.Context, scheduleID string) error

	ListComments(ctx context.Context, scheduleID string) ([]Comment, error)
	UpsertComment(ctx context.Context, comment *Comment) error
	DeleteComments(ctx context.Context, scheduleID string) error
}
