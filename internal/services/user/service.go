// Package user provides user registration and lookup.
package user

import (
	"context"
	"errors"
	"fmt"

	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
)

var (
	ErrEmailTaken   = errors.New("user with this email already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

// RegisterInput carries the fields needed to create a user.
type RegisterInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetWallets(ctx context.Context, userID uint) ([]*models.Wallet, error)
}

type service struct {
	users   repositories.UserRepository
	wallets repositories.WalletRepository
}

func NewService(users repositories.UserRepository, wallets repositories.WalletRepository) Service {
	if users == nil {
		panic("user repo is required")
	}
	if wallets == nil {
		panic("wallet repo is required")
	}
	return &service{
		users:   users,
		wallets: wallets,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if existing, _ := s.users.GetByEmail(input.Email); existing != nil {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (s *service) GetWallets(ctx context.Context, userID uint) ([]*models.Wallet, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	wallets, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user wallets: %w", err)
	}
	return wallets, nil
}
