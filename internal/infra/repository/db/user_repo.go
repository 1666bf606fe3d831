package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByID returns (nil, nil) when the user does not exist.
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	// GetUserByEmail returns (nil, nil) when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(conn *gorm.DB) *UserRepo {
	return &UserRepo{db: conn}
}

func (s *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserRepo) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("user_email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

var _ IUserRepository = (*UserRepo)(nil)
