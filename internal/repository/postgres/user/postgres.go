package user

import (
	"context"
	"errors"

	domain "schedule-arranger-go/internal/domain/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username"}),
		}).
		Create(user).Error
}

func (r *PostgresRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
