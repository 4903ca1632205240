package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/auth"
	"github.com/harborgate/tenancy/internal/config"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/handler"
	"github.com/harborgate/tenancy/internal/mocks"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type authFixture struct {
	handler        *handler.AuthHandler
	userService    *service.UserService
	sessionManager *auth.SessionManager
	cache          *service.CacheService
	cfg            *config.Config
}

func newAuthFixture(userRepo *mocks.MockUserRepositoryIface) *authFixture {
	cfg := config.Load()
	sessionManager := auth.NewSessionManager("test_secret", time.Hour, "session", false)
	cache := service.NewCacheService(service.CacheConfig{
		TTL:         5 * time.Minute,
		CleanupFreq: time.Minute,
	})
	userService := service.NewUserService(userRepo, auth.NewPasswordHasher(), sessionManager, cache, cfg)

	return &authFixture{
		handler:        handler.NewAuthHandler(userService, sessionManager, cfg),
		userService:    userService,
		sessionManager: sessionManager,
		cache:          cache,
		cfg:            cfg,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestLoginForm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("anonymous caller receives a nonce", func(t *testing.T) {
		fx := newAuthFixture(mocks.NewMockUserRepositoryIface(ctrl))
		defer fx.cache.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
		rec := httptest.NewRecorder()
		fx.handler.LoginForm(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["authenticated"])
		assert.NotEmpty(t, body["nonce"])
	})

	t.Run("authenticated caller is redirected without a nonce", func(t *testing.T) {
		fx := newAuthFixture(mocks.NewMockUserRepositoryIface(ctrl))
		defer fx.cache.Close()

		token, err := fx.sessionManager.Generate(uuid.NewString(), "user@example.com")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/login?next=/api/profile", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		rec := httptest.NewRecorder()
		fx.handler.LoginForm(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, "/api/profile", body["redirect_url"])
		assert.Nil(t, body["nonce"])
	})

	t.Run("protocol-relative next is not honored", func(t *testing.T) {
		fx := newAuthFixture(mocks.NewMockUserRepositoryIface(ctrl))
		defer fx.cache.Close()

		token, err := fx.sessionManager.Generate(uuid.NewString(), "user@example.com")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/login?next=//evil.example.com", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		rec := httptest.NewRecorder()
		fx.handler.LoginForm(rec, req)

		body := decodeBody(t, rec)
		assert.Equal(t, fx.cfg.LoginRedirectURL, body["redirect_url"])
	})
}

func TestLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hasher := auth.NewPasswordHasher()
	hashed, _ := hasher.Hash("correct_password")
	user := &model.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hashed,
		Status:       model.StatusActive,
	}

	postLogin := func(t *testing.T, fx *authFixture, payload string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		fx.handler.Login(rec, req)
		return rec
	}

	t.Run("valid nonce and credentials set the session cookie", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		fx := newAuthFixture(userRepo)
		defer fx.cache.Close()

		userRepo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)

		nonce, err := fx.userService.LoginFormNonce(context.Background())
		assert.NoError(t, err)

		rec := postLogin(t, fx, `{"email":"user@example.com","password":"correct_password","nonce":"`+nonce+`"}`)

		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, fx.cfg.LoginRedirectURL, body["redirect_url"])

		cookies := rec.Result().Cookies()
		assert.Len(t, cookies, 1)
		assert.Equal(t, "session", cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)

		_, err = fx.sessionManager.Validate(cookies[0].Value)
		assert.NoError(t, err)
	})

	t.Run("missing or fabricated nonce is rejected", func(t *testing.T) {
		fx := newAuthFixture(mocks.NewMockUserRepositoryIface(ctrl))
		defer fx.cache.Close()

		rec := postLogin(t, fx, `{"email":"user@example.com","password":"correct_password","nonce":"bogus"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("a nonce cannot be replayed", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		fx := newAuthFixture(userRepo)
		defer fx.cache.Close()

		userRepo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)

		nonce, err := fx.userService.LoginFormNonce(context.Background())
		assert.NoError(t, err)

		payload := `{"email":"user@example.com","password":"correct_password","nonce":"` + nonce + `"}`
		assert.Equal(t, http.StatusOK, postLogin(t, fx, payload).Code)
		assert.Equal(t, http.StatusBadRequest, postLogin(t, fx, payload).Code)
	})

	t.Run("bad credentials yield a 401 with no cookie", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		fx := newAuthFixture(userRepo)
		defer fx.cache.Close()

		userRepo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)

		nonce, err := fx.userService.LoginFormNonce(context.Background())
		assert.NoError(t, err)

		rec := postLogin(t, fx, `{"email":"user@example.com","password":"wrong","nonce":"`+nonce+`"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		fx := newAuthFixture(userRepo)
		defer fx.cache.Close()

		userRepo.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, domain.ErrUserNotFound)

		nonce, err := fx.userService.LoginFormNonce(context.Background())
		assert.NoError(t, err)

		rec := postLogin(t, fx, `{"email":"ghost@example.com","password":"whatever1","nonce":"`+nonce+`"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Invalid email or password", body["error"])
	})
}

func TestLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("clears the session cookie", func(t *testing.T) {
		fx := newAuthFixture(mocks.NewMockUserRepositoryIface(ctrl))
		defer fx.cache.Close()

		token, err := fx.sessionManager.Generate(uuid.NewString(), "user@example.com")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		rec := httptest.NewRecorder()
		fx.handler.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		assert.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.True(t, cookies[0].Expires.Before(time.Now()))

		body := decodeBody(t, rec)
		assert.Equal(t, fx.cfg.LoginURL, body["redirect_url"])
		assert.Equal(t, "You have successfully logged out.", body["message"])
	})

	t.Run("anonymous logout is still a success", func(t *testing.T) {
		fx := newAuthFixture(mocks.NewMockUserRepositoryIface(ctrl))
		defer fx.cache.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		rec := httptest.NewRecorder()
		fx.handler.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
