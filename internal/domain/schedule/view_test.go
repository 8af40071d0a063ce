package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScheduleViewDenseMatrix(t *testing.T) {
	sched := Schedule{ScheduleID: "sched-1", ScheduleName: "Lunch", CreatedBy: 1}
	candidates := []Candidate{
		{CandidateID: 10, CandidateName: "Mon", ScheduleID: "sched-1"},
		{CandidateID: 11, CandidateName: "Tue", ScheduleID: "sched-1"},
	}
	rows := []AvailabilityRow{
		{CandidateID: 10, UserID: 1, Username: "userA", Availability: 2},
	}

	view := BuildScheduleView(Viewer{UserID: 1, Username: "userA"}, sched, candidates, rows, nil)

	require.Len(t, view.Users, 1)
	assert.True(t, view.Users[0].IsSelf)

	// One defined value per (user, candidate) pair.
	require.Len(t, view.Availabilities, 1)
	byCandidate := view.Availabilities[1]
	require.Len(t, byCandidate, 2)
	assert.Equal(t, 2, byCandidate[10])
	assert.Equal(t, AvailabilityAbsent, byCandidate[11])
}

func TestBuildScheduleViewViewerAlwaysPresent(t *testing.T) {
	sched := Schedule{ScheduleID: "sched-1"}
	candidates := []Candidate{{CandidateID: 10, ScheduleID: "sched-1"}}
	rows := []AvailabilityRow{
		{CandidateID: 10, UserID: 2, Username: "alice", Availability: 1},
		{CandidateID: 10, UserID: 3, Username: "bob", Availability: 2},
	}

	// Viewer never answered anything but still leads the user list.
	view := BuildScheduleView(Viewer{UserID: 9, Username: "zoe"}, sched, candidates, rows, nil)

	require.Len(t, view.Users, 3)
	assert.Equal(t, int64(9), view.Users[0].UserID)
	assert.True(t, view.Users[0].IsSelf)
	assert.Equal(t, "alice", view.Users[1].Username)
	assert.Equal(t, "bob", view.Users[2].Username)
	assert.False(t, view.Users[1].IsSelf)
	assert.False(t, view.Users[2].IsSelf)

	assert.Equal(t, AvailabilityAbsent, view.Availabilities[9][10])
	assert.Equal(t, 1, view.Availabilities[2][10])
	assert.Equal(t, 2, view.Availabilities[3][10])
}

func TestBuildScheduleViewViewerNotDuplicated(t *testing.T) {
	sched := Schedule{ScheduleID: "sched-1"}
	candidates := []Candidate{{CandidateID: 10, ScheduleID: "sched-1"}}
	rows := []AvailabilityRow{
		{CandidateID: 10, UserID: 2, Username: "alice", Availability: 1},
		{CandidateID: 10, UserID: 1, Username: "userA", Availability: 2},
	}

	view := BuildScheduleView(Viewer{UserID: 1, Username: "userA"}, sched, candidates, rows, nil)

	require.Len(t, view.Users, 2)
	assert.Equal(t, int64(1), view.Users[0].UserID)
	assert.Equal(t, int64(2), view.Users[1].UserID)
	assert.Equal(t, 2, view.Availabilities[1][10])
}

func TestBuildScheduleViewZeroCandidates(t *testing.T) {
	sched := Schedule{ScheduleID: "sched-1"}

	view := BuildScheduleView(Viewer{UserID: 1, Username: "userA"}, sched, nil, nil, nil)

	require.Len(t, view.Users, 1)
	require.Contains(t, view.Availabilities, int64(1))
	assert.Empty(t, view.Availabilities[1])
}

func TestBuildScheduleViewComments(t *testing.T) {
	sched := Schedule{ScheduleID: "sched-1"}
	comments := []Comment{
		{ScheduleID: "sched-1", UserID: 1, Comment: "looking forward to it"},
		{ScheduleID: "sched-1", UserID: 2, Comment: "maybe"},
	}

	view := BuildScheduleView(Viewer{UserID: 1, Username: "userA"}, sched, nil, nil, comments)

	require.Len(t, view.Comments, 2)
	assert.Equal(t, "looking forward to it", view.Comments[1])
	assert.Equal(t, "maybe", view.Comments[2])
}
