package user

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) UpsertUser(ctx context.Context, userID int64, username string) error {
	if userID == 0 {
		return fmt.Errorf("user id is required")
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}

	return s.repo.UpsertUser(ctx, &User{UserID: userID, Username: username})
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetUser(ctx, userID)
}
