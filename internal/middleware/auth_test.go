package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/auth"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/middleware"
	"github.com/harborgate/tenancy/internal/mocks"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const loginURL = "/api/auth/login"

func TestRequireAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionManager := auth.NewSessionManager("test_secret", time.Hour, "session", false)

	user := &model.User{ID: uuid.New(), Email: "user@example.com", Status: model.StatusActive}

	serve := func(t *testing.T, userRepo *mocks.MockUserRepositoryIface, mutate func(*http.Request)) (*httptest.ResponseRecorder, *model.User) {
		t.Helper()

		var seen *model.User
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = middleware.UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		handler := middleware.RequireAuth(sessionManager, userRepo, loginURL)(next)

		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		if mutate != nil {
			mutate(req)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec, seen
	}

	t.Run("valid session cookie admits and loads the user", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		userRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		token, err := sessionManager.Generate(user.ID.String(), user.Email)
		assert.NoError(t, err)

		rec, seen := serve(t, userRepo, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "session", Value: token})
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, seen)
		assert.Equal(t, user.ID, seen.ID)
	})

	t.Run("bearer token is accepted as an alternative", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		userRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		token, err := sessionManager.Generate(user.ID.String(), user.Email)
		assert.NoError(t, err)

		rec, _ := serve(t, userRepo, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous caller gets a 401 pointing at the login route", func(t *testing.T) {
		rec, _ := serve(t, mocks.NewMockUserRepositoryIface(ctrl), nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, loginURL, body["redirect_url"])
	})

	t.Run("garbage token is a 401", func(t *testing.T) {
		rec, _ := serve(t, mocks.NewMockUserRepositoryIface(ctrl), func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "session", Value: "not-a-token"})
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret is a 401", func(t *testing.T) {
		other := auth.NewSessionManager("other_secret", time.Hour, "session", false)
		token, err := other.Generate(user.ID.String(), user.Email)
		assert.NoError(t, err)

		rec, _ := serve(t, mocks.NewMockUserRepositoryIface(ctrl), func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "session", Value: token})
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("session for a deleted user is a 401", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		userRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(nil, domain.ErrUserNotFound)

		token, err := sessionManager.Generate(user.ID.String(), user.Email)
		assert.NoError(t, err)

		rec, _ := serve(t, userRepo, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "session", Value: token})
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
