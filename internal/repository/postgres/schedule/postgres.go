package schedule

import (
	"context"
	"errors"

	domain "schedule-arranger-go/internal/domain/schedule"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetSchedule(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	var sched domain.Schedule
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		First(&sched).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, err
	}
	return &sched, nil
}

func (r *PostgresRepository) ListSchedulesByOwner(ctx context.Context, userID int64) ([]domain.Schedule, error) {
	var schedules []domain.Schedule
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("updated_at desc").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *PostgresRepository) CreateSchedule(ctx context.Context, sched *domain.Schedule) error {
	return r.db.WithContext(ctx).Create(sched).Error
}

func (r *PostgresRepository) UpdateSchedule(ctx context.Context, sched *domain.Schedule) error {
	return r.db.WithContext(ctx).
		Model(&domain.Schedule{}).
		Where("schedule_id = ?", sched.ScheduleID).
		Updates(map[string]interface{}{
			"schedule_name": sched.ScheduleName,
			"memo":          sched.Memo,
			"updated_at":    sched.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteSchedule(ctx context.Context, scheduleID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Schedule{}, "schedule_id = ?", scheduleID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CreateCandidates(ctx context.Context, candidates []domain.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&candidates).Error
}

func (r *PostgresRepository) ListCandidates(ctx context.Context, scheduleID string) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("candidate_id asc").
		Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *PostgresRepository) GetCandidate(ctx context.Context, scheduleID string, candidateID int64) (*domain.Candidate, error) {
	var candidate domain.Candidate
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND candidate_id = ?", scheduleID, candidateID).
		First(&candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *PostgresRepository) DeleteCandidates(ctx context.Context, scheduleID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Candidate{}, "schedule_id = ?", scheduleID).Error
}

func (r *PostgresRepository) ListAvailabilityRows(ctx context.Context, scheduleID string) ([]domain.AvailabilityRow, error) {
	var rows []domain.AvailabilityRow
	if err := r.db.WithContext(ctx).
		Model(&domain.Availability{}).
		Select("availabilities.candidate_id, availabilities.user_id, users.username, availabilities.availability").
		Joins("JOIN users ON users.user_id = availabilities.user_id").
		Where("availabilities.schedule_id = ?", scheduleID).
		Order("users.username asc, availabilities.candidate_id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) UpsertAvailability(ctx context.Context, availability *domain.Availability) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"availability"}),
		}).
		Create(availability).Error
}

func (r *PostgresRepository) DeleteAvailabilities(ctx context.Context, scheduleID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Availability{}, "schedule_id = ?", scheduleID).Error
}

func (r *PostgresRepository) ListComments(ctx context.Context, scheduleID string) ([]domain.Comment, error) {
	var comments []domain.Comment
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PostgresRepository) UpsertComment(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "schedule_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"comment"}),
		}).
		Create(comment).Error
}

func (r *PostgresRepository) DeleteComments(ctx context.Context, scheduleID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Comment{}, "schedule_id = ?", scheduleID).Error
}
