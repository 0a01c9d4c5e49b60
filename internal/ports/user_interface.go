package ports

import (
	"context"

	"file-sharing-server/internal/model"
)

// UserDirectory : справочник пользователей
type UserDirectory interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, uuid string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Exists(ctx context.Context, uuid string) (bool, error)
}

type UserService interface {
	Register(ctx context.Context, email, name, password string) (string, *model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
