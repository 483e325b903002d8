package repository

import (
	"context"

	"Places-App/internal/domain/model"
)

type UsersRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetAll(ctx context.Context) ([]model.User, error)
	// Create user.IDを採番して保存する。メールが既に使われていればErrDuplicateEmail
	Create(ctx context.Context, user *model.User) error
}
