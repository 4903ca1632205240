// cmd/api/main_test.go
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/auth"
	"github.com/harborgate/tenancy/internal/config"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/handler"
	"github.com/harborgate/tenancy/internal/middleware"
	"github.com/harborgate/tenancy/internal/mocks"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/policy"
	"github.com/harborgate/tenancy/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// routerFixture mounts the full API route tree on mocked repositories so
// the gate composition of each route can be exercised end to end, session
// middleware included.
type routerFixture struct {
	cfg         *config.Config
	router      chi.Router
	sessions    *auth.SessionManager
	cache       *service.CacheService
	userRepo    *mocks.MockUserRepositoryIface
	accountRepo *mocks.MockAccountRepositoryIface
	orgRepo     *mocks.MockOrganizationRepositoryIface
}

func newRouterFixture(ctrl *gomock.Controller) *routerFixture {
	cfg := config.Load()
	sessions := auth.NewSessionManager("test_secret", time.Hour, cfg.Session.CookieName, false)
	cacheService := service.NewCacheService(service.CacheConfig{TTL: time.Minute, CleanupFreq: time.Minute})

	userRepo := mocks.NewMockUserRepositoryIface(ctrl)
	accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
	orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)

	userService := service.NewUserService(userRepo, auth.NewPasswordHasher(), sessions, cacheService, cfg)
	accountService := service.NewAccountService(accountRepo, userRepo, nil, nil, cfg)
	orgService := service.NewOrganizationService(orgRepo, userRepo)
	auditService := service.NewAccessAuditLogService(nil)

	gate := policy.New(accountService, nil)

	handlers := apiHandlers{
		auth:        handler.NewAuthHandler(userService, sessions, cfg),
		account:     handler.NewAccountHandler(accountService),
		accountUser: handler.NewAccountUserHandler(accountService),
		profile:     handler.NewProfileHandler(userService),
		orgAdmin:    handler.NewOrgAdminHandler(orgService),
		auditLog:    handler.NewAuditLogHandler(auditService),
	}

	r := chi.NewRouter()
	mountAPIRoutes(r, handlers, gate, middleware.RequireAuth(sessions, userRepo, cfg.LoginURL))

	return &routerFixture{
		cfg:         cfg,
		router:      r,
		sessions:    sessions,
		cache:       cacheService,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		orgRepo:     orgRepo,
	}
}

func (fx *routerFixture) do(t *testing.T, method, path string, caller *model.User) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if caller != nil {
		token, err := fx.sessions.Generate(caller.ID.String(), caller.Email)
		assert.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: fx.cfg.Session.CookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRouteGates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fx := newRouterFixture(ctrl)
	defer fx.cache.Close()

	account := &model.Account{ID: uuid.New(), Name: "Acme", Slug: "acme"}

	member := &model.User{ID: uuid.New(), Email: "member@example.com", Status: model.StatusActive}
	admin := &model.User{ID: uuid.New(), Email: "admin@example.com", Status: model.StatusActive}
	owner := &model.User{ID: uuid.New(), Email: "owner@example.com", Status: model.StatusActive}
	outsider := &model.User{ID: uuid.New(), Email: "outsider@example.com", Status: model.StatusActive}
	staff := &model.User{ID: uuid.New(), Email: "staff@example.com", Status: model.StatusActive, IsStaff: true}

	users := map[uuid.UUID]*model.User{
		member.ID:   member,
		admin.ID:    admin,
		owner.ID:    owner,
		outsider.ID: outsider,
		staff.ID:    staff,
	}

	roles := map[uuid.UUID]model.AccountRole{
		member.ID: model.RoleMember,
		admin.ID:  model.RoleAdmin,
		owner.ID:  model.RoleOwner,
	}

	memberRecord := &model.AccountUser{
		ID:        uuid.New(),
		AccountID: account.ID,
		UserID:    member.ID,
		Role:      model.RoleMember,
	}

	fx.userRepo.EXPECT().
		FindByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID) (*model.User, error) {
			if u, ok := users[id]; ok {
				return u, nil
			}
			return nil, domain.ErrUserNotFound
		}).
		AnyTimes()

	fx.accountRepo.EXPECT().
		FindByID(gomock.Any(), account.ID).
		Return(account, nil).
		AnyTimes()
	fx.accountRepo.EXPECT().
		FindMembership(gomock.Any(), account.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, userID uuid.UUID) (*model.AccountUser, error) {
			role, ok := roles[userID]
			if !ok {
				return nil, domain.ErrMembershipNotFound
			}
			return &model.AccountUser{
				ID:        uuid.New(),
				AccountID: account.ID,
				UserID:    userID,
				Role:      role,
			}, nil
		}).
		AnyTimes()
	fx.accountRepo.EXPECT().
		FindMembershipByID(gomock.Any(), memberRecord.ID).
		Return(memberRecord, nil).
		AnyTimes()
	fx.accountRepo.EXPECT().
		FindMembers(gomock.Any(), account.ID).
		Return([]*model.AccountUser{memberRecord}, nil).
		AnyTimes()
	fx.accountRepo.EXPECT().Delete(gomock.Any(), account.ID).Return(nil).AnyTimes()
	fx.accountRepo.EXPECT().DeleteMembership(gomock.Any(), memberRecord.ID).Return(nil).AnyTimes()

	accountPath := "/api/accounts/" + account.ID.String()
	membershipPath := accountPath + "/members/" + memberRecord.ID.String()

	t.Run("membership detail requires the admin role", func(t *testing.T) {
		rec := fx.do(t, http.MethodGet, membershipPath, member)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = fx.do(t, http.MethodGet, membershipPath, admin)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, jsonBody(t, rec), "account_user")
	})

	t.Run("each account route admits exactly the configured role", func(t *testing.T) {
		cases := []struct {
			name   string
			method string
			path   string
			caller *model.User
			want   int
		}{
			{"member reads the account", http.MethodGet, accountPath, member, http.StatusOK},
			{"member lists members", http.MethodGet, accountPath + "/members", member, http.StatusOK},
			{"member cannot delete a membership", http.MethodDelete, membershipPath, member, http.StatusForbidden},
			{"member cannot delete the account", http.MethodDelete, accountPath, member, http.StatusForbidden},
			{"admin cannot delete the account", http.MethodDelete, accountPath, admin, http.StatusForbidden},
			{"outsider cannot read the account", http.MethodGet, accountPath, outsider, http.StatusForbidden},
			{"staff role grants no account access", http.MethodGet, accountPath, staff, http.StatusForbidden},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rec := fx.do(t, tc.method, tc.path, tc.caller)
				assert.Equal(t, tc.want, rec.Code)
			})
		}
	})

	t.Run("owner deletes the account and is pointed back at the list", func(t *testing.T) {
		rec := fx.do(t, http.MethodDelete, accountPath, owner)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/api/accounts", jsonBody(t, rec)["redirect_url"])
	})

	t.Run("admin removes a membership and is pointed at the member list", func(t *testing.T) {
		rec := fx.do(t, http.MethodDelete, membershipPath, admin)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, accountPath+"/members", jsonBody(t, rec)["redirect_url"])
	})

	t.Run("anonymous caller is sent to the login route", func(t *testing.T) {
		rec := fx.do(t, http.MethodGet, "/api/accounts", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, fx.cfg.LoginURL, jsonBody(t, rec)["redirect_url"])
	})

	t.Run("admin surface is staff-only", func(t *testing.T) {
		rec := fx.do(t, http.MethodGet, "/api/admin/orgs", owner)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		fx.orgRepo.EXPECT().FindAll(gomock.Any()).Return([]*model.Organization{}, nil)
		rec = fx.do(t, http.MethodGet, "/api/admin/orgs", staff)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRecoveryMiddlewareStatus(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.Use(recoveryMiddleware(logger))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
