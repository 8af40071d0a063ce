package schedule

import "time"

const (
	// UntitledName replaces a schedule name that is blank after trimming
	// and truncation.
	UntitledName = "(untitled)"

	MaxNameLength = 255
	MaxMemoLength = 1000
)

// AvailabilityAbsent is the availability of every (user, candidate) pair
// that has no stored answer. Higher values mean stronger attendance; the
// exact scale belongs to the presentation layer.
const AvailabilityAbsent = 0

type Schedule struct {
	ScheduleID   string    `gorm:"type:uuid;primaryKey;column:schedule_id"`
	ScheduleName string    `gorm:"size:255;not null"`
	Memo         string    `gorm:"type:text;not null"`
	CreatedBy    int64     `gorm:"not null;index"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// Candidate is one proposed date/time slot. Candidates are only ever
// created in bulk or destroyed with their schedule, never edited.
type Candidate struct {
	CandidateID   int64  `gorm:"primaryKey;autoIncrement;column:candidate_id"`
	CandidateName string `gorm:"not null"`
	ScheduleID    string `gorm:"type:uuid;not null;index"`
}

// Availability stores one user's answer for one candidate slot. ScheduleID
// is denormalized so the whole aggregate can be deleted by schedule id.
type Availability struct {
	CandidateID  int64  `gorm:"primaryKey;autoIncrement:false;column:candidate_id"`
	UserID       int64  `gorm:"primaryKey;autoIncrement:false;column:user_id"`
	Availability int    `gorm:"not null;default:0"`
	ScheduleID   string `gorm:"type:uuid;not null;index"`
}

func (Availability) TableName() string {
	return "availabilities"
}

// Comment holds the single free-text comment a user may leave per schedule.
type Comment struct {
	ScheduleID string `gorm:"type:uuid;primaryKey;column:schedule_id"`
	UserID     int64  `gorm:"primaryKey;autoIncrement:false;column:user_id"`
	Comment    string `gorm:"type:text;not null"`
}

// AvailabilityRow is an availability record joined to its user, ordered by
// username then candidate id when listed for a schedule.
type AvailabilityRow struct {
	CandidateID  int64
	UserID       int64
	Username     string
	Availability int
}

// Viewer identifies the authenticated user an operation runs as.
type Viewer struct {
	UserID   int64
	Username string
}

type CreateScheduleInput struct {
	ScheduleName   string
	Memo           string
	CandidateNames string
}

type UpdateScheduleInput struct {
	ScheduleID     string
	ScheduleName   string
	Memo           string
	CandidateNames string
}
