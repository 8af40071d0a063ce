package schedule

// ViewUser is one row of the attendance table. The viewing user is always
// present and flagged IsSelf, even before they answered anything.
type ViewUser struct {
	UserID   int64
	Username string
	IsSelf   bool
}

// ScheduleView is the denormalized presentation structure for one schedule:
// the schedule itself, its candidates ordered by candidate id, every user
// who interacted with it, a dense (user, candidate) availability matrix and
// the per-user comments.
type ScheduleView struct {
	Schedule   Schedule
	Candidates []Candidate
	Users      []ViewUser
	// Availabilities maps user id -> candidate id -> availability. Every
	// user in Users has an entry for every candidate; unanswered pairs are
	// AvailabilityAbsent.
	Availabilities map[int64]map[int64]int
	// Comments maps user id -> comment text for users who left one.
	Comments map[int64]string
}

// BuildScheduleView assembles the view from already-fetched rows. It is a
// pure transformation: candidates must arrive ordered by candidate id and
// rows ordered by username then candidate id, as the repository queries
// guarantee.
func BuildScheduleView(viewer Viewer, sched Schedule, candidates []Candidate, rows []AvailabilityRow, comments []Comment) ScheduleView {
	answers := make(map[int64]map[int64]int)
	for _, row := range rows {
		byCandidate := answers[row.UserID]
		if byCandidate == nil {
			byCandidate = make(map[int64]int)
			answers[row.UserID] = byCandidate
		}
		byCandidate[row.CandidateID] = row.Availability
	}

	// The viewer leads the user list; everyone else follows in the
	// username order of the rows.
	users := []ViewUser{{UserID: viewer.UserID, Username: viewer.Username, IsSelf: true}}
	seen := map[int64]struct{}{viewer.UserID: {}}
	for _, row := range rows {
		if _, ok := seen[row.UserID]; ok {
			continue
		}
		seen[row.UserID] = struct{}{}
		users = append(users, ViewUser{UserID: row.UserID, Username: row.Username})
	}

	// Densify: every (user, candidate) pair gets a defined value.
	matrix := make(map[int64]map[int64]int, len(users))
	for _, u := range users {
		byCandidate := make(map[int64]int, len(candidates))
		for _, c := range candidates {
			value := AvailabilityAbsent
			if stored, ok := answers[u.UserID][c.CandidateID]; ok {
				value = stored
			}
			byCandidate[c.CandidateID] = value
		}
		matrix[u.UserID] = byCandidate
	}

	commentMap := make(map[int64]string, len(comments))
	for _, c := range comments {
		commentMap[c.UserID] = c.Comment
	}

	return ScheduleView{
		Schedule:       sched,
		Candidates:     candidates,
		Users:          users,
		Availabilities: matrix,
		Comments:       commentMap,
	}
}
