package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/kendall-kelly/fourwheels-api/repositories"
	"gorm.io/gorm"
)

// Registration is the input for creating an account
type Registration struct {
	Username    string
	Password    string
	PhoneNumber string
	Role        string
}

// AuthService owns credentials: registration, login and password changes
type AuthService struct {
	users  repositories.UserRepository
	tokens *TokenService
}

func NewAuthService(db *gorm.DB, tokens *TokenService) *AuthService {
	return &AuthService{
		users:  repositories.NewUserRepository(db),
		tokens: tokens,
	}
}

// Register creates the user and returns a token for it
func (s *AuthService) Register(ctx context.Context, in Registration) (*models.User, string, error) {
	if !models.IsValidRole(in.Role) {
		return nil, "", ErrInvalidRole
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:    in.Username,
		Password:    hash,
		PhoneNumber: in.PhoneNumber,
		Role:        in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the credentials and returns a fresh token.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials after a bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			RejectPassword(password)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser returns a user by id
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.findUser(s.users.FindByID(ctx, id))
}

// GetUserByUsername returns a user by username
func (s *AuthService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(s.users.FindByUsername(ctx, username))
}

// ResetPassword overwrites a user's password without checking the old one
func (s *AuthService) ResetPassword(ctx context.Context, id uint, newPassword string) (*models.User, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}
	if err := s.setPassword(ctx, id, newPassword); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// ChangePassword replaces the password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, id uint, currentPassword, newPassword string) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(user.Password, currentPassword) {
		return nil, ErrWrongPassword
	}
	if err := s.setPassword(ctx, id, newPassword); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// UpdatePhoneNumber replaces a user's phone number
func (s *AuthService) UpdatePhoneNumber(ctx context.Context, id uint, phoneNumber string) (*models.User, error) {
	if err := s.users.UpdatePhoneNumber(ctx, id, phoneNumber); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *AuthService) setPassword(ctx context.Context, id uint, plain string) error {
	hash, err := HashPassword(plain)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *AuthService) findUser(user *models.User, err error) (*models.User, error) {
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}
