// internal/service/user.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/auth"
	"github.com/harborgate/tenancy/internal/config"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/repository"
)

type UserService struct {
	repo           repository.UserRepositoryIface
	passwordHasher *auth.PasswordHasher
	sessionManager *auth.SessionManager
	cacheService   *CacheService
	config         *config.Config
	validate       *validator.Validate
}

func NewUserService(
	repo repository.UserRepositoryIface,
	passwordHasher *auth.PasswordHasher,
	sessionManager *auth.SessionManager,
	cacheService *CacheService,
	config *config.Config,
) *UserService {
	return &UserService{
		repo:           repo,
		passwordHasher: passwordHasher,
		sessionManager: sessionManager,
		cacheService:   cacheService,
		config:         config,
		validate:       validator.New(),
	}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Login verifies credentials and, on success, issues a session token.
// All failure modes surface as ErrInvalidCredentials so the response
// never distinguishes unknown emails from wrong passwords.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		return nil, domain.ErrInvalidCredentials
	}

	verified, err := s.passwordHasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}

	if !verified {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.sessionManager.Generate(user.ID.String(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	return &LoginOutput{
		User:  user,
		Token: token,
	}, nil
}

// LoginFormNonce generates a one-time nonce for the login form and caches
// it until the form is submitted.
func (s *UserService) LoginFormNonce(ctx context.Context) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating random nonce: %w", err)
	}

	nonce := hex.EncodeToString(raw)
	if err := s.cacheService.Set(ctx, nonce, true); err != nil {
		return "", fmt.Errorf("caching nonce: %w", err)
	}

	return nonce, nil
}

// ConsumeNonce validates and burns a login form nonce.
func (s *UserService) ConsumeNonce(ctx context.Context, nonce string) error {
	ok, err := s.cacheService.CheckNonce(ctx, nonce)
	if err != nil {
		return fmt.Errorf("checking nonce: %w", err)
	}
	if !ok {
		return domain.ErrInvalidNonce
	}
	return nil
}

type CreateUserInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" validate:"required,min=8"`
	IsStaff   bool   `json:"is_staff"`
}

// CreateUser provisions a user record. There is no public registration
// surface; this is reached from the operator CLI only.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	hashed, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hashed,
		Status:       model.StatusActive,
		IsStaff:      input.IsStaff,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

type UpdateProfileInput struct {
	Email           string `json:"email" validate:"omitempty,email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=8"`
}

// UpdateProfile mutates the calling user's own record. The target is the
// identity itself, never a route parameter, so no gate applies here.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*model.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != "" {
		user.Email = input.Email
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}

	if input.NewPassword != "" {
		// Password changes re-verify the current password even inside an
		// authenticated session.
		verified, err := s.passwordHasher.Verify(input.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("verifying current password: %w", err)
		}
		if !verified {
			return nil, domain.ErrInvalidCredentials
		}

		hashed, err := s.passwordHasher.Hash(input.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = hashed
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
