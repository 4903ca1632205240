package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/auth"
	"github.com/harborgate/tenancy/internal/config"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/mocks"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newUserService(repo *mocks.MockUserRepositoryIface) (*service.UserService, *service.CacheService) {
	cache := service.NewCacheService(service.CacheConfig{
		TTL:         5 * time.Minute,
		CleanupFreq: time.Minute,
	})
	svc := service.NewUserService(
		repo,
		auth.NewPasswordHasher(),
		auth.NewSessionManager("test_secret", time.Hour, "session", false),
		cache,
		config.Load(),
	)
	return svc, cache
}

func TestUserLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hasher := auth.NewPasswordHasher()
	hashed, _ := hasher.Hash("correct_password")

	testUser := &model.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: hashed,
		Status:       model.StatusActive,
	}

	t.Run("successful login issues a token", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		svc, cache := newUserService(userRepo)
		defer cache.Close()

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), testUser.Email).
			Return(testUser, nil)

		result, err := svc.Login(context.Background(), service.LoginInput{
			Email:    testUser.Email,
			Password: "correct_password",
		})

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, testUser.ID, result.User.ID)
	})

	t.Run("wrong password yields invalid credentials", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		svc, cache := newUserService(userRepo)
		defer cache.Close()

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), testUser.Email).
			Return(testUser, nil)

		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    testUser.Email,
			Password: "wrong_password",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same error as a wrong password", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		svc, cache := newUserService(userRepo)
		defer cache.Close()

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "nobody@example.com").
			Return(nil, domain.ErrUserNotFound)

		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever_password",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("locked user cannot log in with a correct password", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		svc, cache := newUserService(userRepo)
		defer cache.Close()

		locked := *testUser
		locked.Status = model.StatusLocked

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), locked.Email).
			Return(&locked, nil)

		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    locked.Email,
			Password: "correct_password",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestLoginFormNonce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userRepo := mocks.NewMockUserRepositoryIface(ctrl)
	svc, cache := newUserService(userRepo)
	defer cache.Close()

	t.Run("issued nonce is accepted exactly once", func(t *testing.T) {
		nonce, err := svc.LoginFormNonce(context.Background())
		assert.NoError(t, err)
		assert.NotEmpty(t, nonce)

		assert.NoError(t, svc.ConsumeNonce(context.Background(), nonce))
		assert.ErrorIs(t, svc.ConsumeNonce(context.Background(), nonce), domain.ErrInvalidNonce)
	})

	t.Run("fabricated nonce is rejected", func(t *testing.T) {
		err := svc.ConsumeNonce(context.Background(), "deadbeef")
		assert.ErrorIs(t, err, domain.ErrInvalidNonce)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hasher := auth.NewPasswordHasher()
	hashed, _ := hasher.Hash("old_password")

	userID := uuid.New()

	makeUser := func() *model.User {
		return &model.User{
			ID:           userID,
			Email:        "test@example.com",
			FirstName:    "Test",
			LastName:     "User",
			PasswordHash: hashed,
			Status:       model.StatusActive,
		}
	}

	t.Run("updates names without touching the password", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		svc, cache := newUserService(userRepo)
		defer cache.Close()

		userRepo.EXPECT().FindByID(gomock.Any(), userID).Return(makeUser(), nil)
		userRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := svc.UpdateProfile(context.Background(), userID, service.UpdateProfileInput{
			FirstName: "Renamed",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Renamed", updated.FirstName)
		assert.Equal(t, hashed, updated.PasswordHash)
	})

	t.Run("password change requires the current password", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		svc, cache := newUserService(userRepo)
		defer cache.Close()

		userRepo.EXPECT().FindByID(gomock.Any(), userID).Return(makeUser(), nil)

		_, err := svc.UpdateProfile(context.Background(), userID, service.UpdateProfileInput{
			CurrentPassword: "not_the_old_password",
			NewPassword:     "new_password_123",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("password change with the correct current password rehashes", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		svc, cache := newUserService(userRepo)
		defer cache.Close()

		userRepo.EXPECT().FindByID(gomock.Any(), userID).Return(makeUser(), nil)
		userRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := svc.UpdateProfile(context.Background(), userID, service.UpdateProfileInput{
			CurrentPassword: "old_password",
			NewPassword:     "new_password_123",
		})

		assert.NoError(t, err)
		assert.NotEqual(t, hashed, updated.PasswordHash)

		ok, err := hasher.Verify("new_password_123", updated.PasswordHash)
		assert.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("provisioned user is active and hashes the password", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		svc, cache := newUserService(userRepo)
		defer cache.Close()

		userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		user, err := svc.CreateUser(context.Background(), service.CreateUserInput{
			Email:     "ops@example.com",
			FirstName: "Ops",
			Password:  "initial_password",
			IsStaff:   true,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusActive, user.Status)
		assert.True(t, user.IsStaff)
		assert.NotEqual(t, "initial_password", user.PasswordHash)
	})

	t.Run("short password is rejected before hitting the repository", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		svc, cache := newUserService(userRepo)
		defer cache.Close()

		_, err := svc.CreateUser(context.Background(), service.CreateUserInput{
			Email:     "ops@example.com",
			FirstName: "Ops",
			Password:  "short",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
