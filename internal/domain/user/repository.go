package user

import "context"

type Repository interface {
	UpsertUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, userID int64) (*User, error)
}
