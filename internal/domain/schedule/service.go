package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo Repository
	now  func() time.Time
	id   func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
		id:   uuid.NewString,
	}
}

// CreateSchedule persists a new schedule and its parsed candidate names in
// one transaction and returns the stored rows.
func (s *Service) CreateSchedule(ctx context.Context, viewer Viewer, input CreateScheduleInput) (*Schedule, []Candidate, error) {
	sched := &Schedule{
		ScheduleID:   s.id(),
		ScheduleName: normalizeName(input.ScheduleName),
		Memo:         truncateRunes(input.Memo, MaxMemoLength),
		CreatedBy:    viewer.UserID,
		UpdatedAt:    s.now(),
	}

	candidates := candidatesFromNames(ParseCandidateNames(input.CandidateNames), sched.ScheduleID)

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateSchedule(ctx, sched); err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}
		return tx.CreateCandidates(ctx, candidates)
	})
	if err != nil {
		return nil, nil, err
	}

	return sched, candidates, nil
}

// GetScheduleView assembles the full aggregate for rendering. Any
// authenticated user may view a schedule; only the owner may change it.
func (s *Service) GetScheduleView(ctx context.Context, viewer Viewer, scheduleID string) (*ScheduleView, error) {
	sched, err := s.repo.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	var (
		candidates []Candidate
		rows       []AvailabilityRow
		comments   []Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = s.repo.ListCandidates(gctx, scheduleID)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.repo.ListAvailabilityRows(gctx, scheduleID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.repo.ListComments(gctx, scheduleID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := BuildScheduleView(viewer, *sched, candidates, rows, comments)
	return &view, nil
}

// GetScheduleForEdit returns the schedule and its candidates for the edit
// form. Non-owners get the same not-found error as a missing schedule.
func (s *Service) GetScheduleForEdit(ctx context.Context, viewer Viewer, scheduleID string) (*Schedule, []Candidate, error) {
	sched, err := s.getOwnedSchedule(ctx, viewer, scheduleID)
	if err != nil {
		return nil, nil, err
	}

	candidates, err := s.repo.ListCandidates(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}

	return sched, candidates, nil
}

// UpdateSchedule rewrites the schedule's fields and appends any newly
// supplied candidate names. Existing candidates are never touched.
func (s *Service) UpdateSchedule(ctx context.Context, viewer Viewer, input UpdateScheduleInput) (*Schedule, []Candidate, error) {
	sched, err := s.getOwnedSchedule(ctx, viewer, input.ScheduleID)
	if err != nil {
		return nil, nil, err
	}

	sched.ScheduleName = normalizeName(input.ScheduleName)
	sched.Memo = truncateRunes(input.Memo, MaxMemoLength)
	sched.UpdatedAt = s.now()

	added := candidatesFromNames(ParseCandidateNames(input.CandidateNames), sched.ScheduleID)

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.UpdateSchedule(ctx, sched); err != nil {
			return err
		}
		if len(added) == 0 {
			return nil
		}
		return tx.CreateCandidates(ctx, added)
	})
	if err != nil {
		return nil, nil, err
	}

	return sched, added, nil
}

// DeleteSchedule removes the whole aggregate: comments, availabilities and
// candidates are deleted as parallel tasks joined before the schedule row
// itself goes. There is no rollback; a failed step aborts the operation and
// may leave the aggregate partially deleted.
func (s *Service) DeleteSchedule(ctx context.Context, viewer Viewer, scheduleID string) error {
	if _, err := s.getOwnedSchedule(ctx, viewer, scheduleID); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.repo.DeleteComments(gctx, scheduleID) })
	g.Go(func() error { return s.repo.DeleteAvailabilities(gctx, scheduleID) })
	g.Go(func() error { return s.repo.DeleteCandidates(gctx, scheduleID) })
	if err := g.Wait(); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	if !deleted {
		// Lost a race with a concurrent delete.
		return ErrScheduleNotFound
	}
	return nil
}

// ListMySchedules returns the viewer's schedules, most recently updated
// first.
func (s *Service) ListMySchedules(ctx context.Context, viewer Viewer) ([]Schedule, error) {
	return s.repo.ListSchedulesByOwner(ctx, viewer.UserID)
}

// SetAvailability records the viewer's answer for one candidate slot,
// overwriting any previous answer.
func (s *Service) SetAvailability(ctx context.Context, viewer Viewer, scheduleID string, candidateID int64, value int) error {
	candidate, err := s.repo.GetCandidate(ctx, scheduleID, candidateID)
	if err != nil {
		return err
	}

	return s.repo.UpsertAvailability(ctx, &Availability{
		CandidateID:  candidate.CandidateID,
		UserID:       viewer.UserID,
		Availability: value,
		ScheduleID:   candidate.ScheduleID,
	})
}

// SaveComment stores the viewer's single comment on a schedule, replacing
// any previous one.
func (s *Service) SaveComment(ctx context.Context, viewer Viewer, scheduleID, text string) error {
	if _, err := s.repo.GetSchedule(ctx, scheduleID); err != nil {
		return err
	}

	return s.repo.UpsertComment(ctx, &Comment{
		ScheduleID: scheduleID,
		UserID:     viewer.UserID,
		Comment:    text,
	})
}

// getOwnedSchedule is the shared ownership predicate: a schedule that does
// not exist and a schedule owned by someone else both resolve to
// ErrScheduleNotFound.
func (s *Service) getOwnedSchedule(ctx context.Context, viewer Viewer, scheduleID string) (*Schedule, error) {
	sched, err := s.repo.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if sched.CreatedBy != viewer.UserID {
		return nil, ErrScheduleNotFound
	}
	return sched, nil
}

// ParseCandidateNames splits newline-delimited candidate input into
// trimmed, non-empty names. An empty result is legitimate and means no
// candidates are created.
func ParseCandidateNames(input string) []string {
	names := make([]string, 0)
	for _, line := range strings.Split(input, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func candidatesFromNames(names []string, scheduleID string) []Candidate {
	candidates := make([]Candidate, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, Candidate{
			CandidateName: name,
			ScheduleID:    scheduleID,
		})
	}
	return candidates
}

func normalizeName(name string) string {
	name = truncateRunes(strings.TrimSpace(name), MaxNameLength)
	if name == "" {
		return UntitledName
	}
	return name
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
