package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/auth"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type SignupParams struct {
	UserName  string
	UserEmail string
	UserPhone string
	Password  string
}

type LoginResult struct {
	User  *model.User
	Token string
}

type IAuthService interface {
	Signup(ctx context.Context, params SignupParams) (*LoginResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(token string)
}

type AuthService struct {
	store      db.IStore
	tokenStore *auth.TokenStore
	verifier   auth.ICredentialVerifier
}

func NewAuthService(store db.IStore, tokenStore *auth.TokenStore, verifier auth.ICredentialVerifier) *AuthService {
	return &AuthService{
		store:      store,
		tokenStore: tokenStore,
		verifier:   verifier,
	}
}

func (a *AuthService) Signup(ctx context.Context, params SignupParams) (*LoginResult, error) {
	existing, err := a.store.Users().GetUserByEmail(ctx, params.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	digest, err := a.verifier.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		UserName:     params.UserName,
		UserEmail:    params.UserEmail,
		UserPhone:    params.UserPhone,
		PasswordHash: digest,
		Role:         model.RoleCustomer,
	}
	if err := a.store.Users().CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &LoginResult{
		User:  user,
		Token: a.tokenStore.Issue(user.UserID),
	}, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := a.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil || !a.verifier.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &LoginResult{
		User:  user,
		Token: a.tokenStore.Issue(user.UserID),
	}, nil
}

func (a *AuthService) Logout(token string) {
	a.tokenStore.Revoke(token)
}

var _ IAuthService = (*AuthService)(nil)
