package policy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/config"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/middleware"
	"github.com/harborgate/tenancy/internal/mocks"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/policy"
	"github.com/harborgate/tenancy/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// recordingLogger captures gate decisions so tests can assert on them.
type recordingLogger struct {
	mu        sync.Mutex
	decisions []recordedDecision
}

type recordedDecision struct {
	subject    model.Subject
	permission string
	object     model.Object
	result     bool
}

func (l *recordingLogger) LogGateDecision(ctx context.Context, subject model.Subject, permission string, object model.Object, result bool, contextData map[string]interface{}, req *http.Request) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.decisions = append(l.decisions, recordedDecision{subject, permission, object, result})
	return nil
}

func (l *recordingLogger) LogEntityCreate(ctx context.Context, objectType, objectID string, attributes map[string]interface{}, req *http.Request) error {
	return nil
}

func (l *recordingLogger) LogEntityDelete(ctx context.Context, objectType, objectID string, req *http.Request) error {
	return nil
}

// injectUser stands in for the session middleware in tests.
func injectUser(user *model.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"ok":true}`))
}

func newGate(t *testing.T, repo *mocks.MockAccountRepositoryIface, userRepo *mocks.MockUserRepositoryIface, logger *recordingLogger) *policy.Policy {
	t.Helper()
	accounts := service.NewAccountService(repo, userRepo, nil, nil, config.Load())
	return policy.New(accounts, logger)
}

func TestAccountGates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	account := &model.Account{ID: uuid.New(), Name: "Acme"}
	user := &model.User{ID: uuid.New(), Email: "user@example.com"}

	membership := func(role model.AccountRole) *model.AccountUser {
		return &model.AccountUser{
			ID:        uuid.New(),
			AccountID: account.ID,
			UserID:    user.ID,
			Role:      role,
		}
	}

	request := func(t *testing.T, gate *policy.Policy, caller *model.User, wrap func(http.Handler) http.Handler) *httptest.ResponseRecorder {
		t.Helper()
		r := chi.NewRouter()
		r.Use(injectUser(caller))
		r.Route("/accounts/{accountID}", func(r chi.Router) {
			r.Use(gate.AccountCtx)
			r.With(wrap).Get("/", okHandler)
		})

		req := httptest.NewRequest(http.MethodGet, "/accounts/"+account.ID.String(), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("non-member is forbidden and the denial is recorded", func(t *testing.T) {
		repo := mocks.NewMockAccountRepositoryIface(ctrl)
		logger := &recordingLogger{}
		gate := newGate(t, repo, mocks.NewMockUserRepositoryIface(ctrl), logger)

		repo.EXPECT().FindByID(gomock.Any(), account.ID).Return(account, nil)
		repo.EXPECT().FindMembership(gomock.Any(), account.ID, user.ID).Return(nil, domain.ErrMembershipNotFound)

		rec := request(t, gate, user, gate.RequireMember)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Len(t, logger.decisions, 1)
		assert.False(t, logger.decisions[0].result)
		assert.Equal(t, "member", logger.decisions[0].permission)
		assert.Equal(t, account.ID.String(), logger.decisions[0].object.ID)
	})

	t.Run("member passes the member gate", func(t *testing.T) {
		repo := mocks.NewMockAccountRepositoryIface(ctrl)
		logger := &recordingLogger{}
		gate := newGate(t, repo, mocks.NewMockUserRepositoryIface(ctrl), logger)

		repo.EXPECT().FindByID(gomock.Any(), account.ID).Return(account, nil)
		repo.EXPECT().FindMembership(gomock.Any(), account.ID, user.ID).Return(membership(model.RoleMember), nil)

		rec := request(t, gate, user, gate.RequireMember)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, logger.decisions, 1)
		assert.True(t, logger.decisions[0].result)
	})

	t.Run("member fails the admin gate", func(t *testing.T) {
		repo := mocks.NewMockAccountRepositoryIface(ctrl)
		logger := &recordingLogger{}
		gate := newGate(t, repo, mocks.NewMockUserRepositoryIface(ctrl), logger)

		repo.EXPECT().FindByID(gomock.Any(), account.ID).Return(account, nil)
		repo.EXPECT().FindMembership(gomock.Any(), account.ID, user.ID).Return(membership(model.RoleMember), nil)

		rec := request(t, gate, user, gate.RequireAdmin)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin fails the owner gate", func(t *testing.T) {
		repo := mocks.NewMockAccountRepositoryIface(ctrl)
		logger := &recordingLogger{}
		gate := newGate(t, repo, mocks.NewMockUserRepositoryIface(ctrl), logger)

		repo.EXPECT().FindByID(gomock.Any(), account.ID).Return(account, nil)
		repo.EXPECT().FindMembership(gomock.Any(), account.ID, user.ID).Return(membership(model.RoleAdmin), nil)

		rec := request(t, gate, user, gate.RequireOwner)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner passes every gate", func(t *testing.T) {
		repo := mocks.NewMockAccountRepositoryIface(ctrl)
		logger := &recordingLogger{}
		gate := newGate(t, repo, mocks.NewMockUserRepositoryIface(ctrl), logger)

		gates := []func(http.Handler) http.Handler{gate.RequireMember, gate.RequireAdmin, gate.RequireOwner}
		for range gates {
			repo.EXPECT().FindByID(gomock.Any(), account.ID).Return(account, nil)
			repo.EXPECT().FindMembership(gomock.Any(), account.ID, user.ID).Return(membership(model.RoleOwner), nil)
		}

		for _, mw := range gates {
			rec := request(t, gate, user, mw)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("unknown account is a 404 before any gate decision", func(t *testing.T) {
		repo := mocks.NewMockAccountRepositoryIface(ctrl)
		logger := &recordingLogger{}
		gate := newGate(t, repo, mocks.NewMockUserRepositoryIface(ctrl), logger)

		repo.EXPECT().FindByID(gomock.Any(), account.ID).Return(nil, domain.ErrAccountNotFound)

		rec := request(t, gate, user, gate.RequireMember)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, logger.decisions)
	})
}

func TestMembershipCtx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	account := &model.Account{ID: uuid.New(), Name: "Acme"}
	user := &model.User{ID: uuid.New()}
	callerMembership := &model.AccountUser{
		ID:        uuid.New(),
		AccountID: account.ID,
		UserID:    user.ID,
		Role:      model.RoleOwner,
	}

	serve := func(t *testing.T, gate *policy.Policy, membershipID uuid.UUID) *httptest.ResponseRecorder {
		t.Helper()
		r := chi.NewRouter()
		r.Use(injectUser(user))
		r.Route("/accounts/{accountID}/members/{membershipID}", func(r chi.Router) {
			r.Use(gate.AccountCtx)
			r.Use(gate.MembershipCtx)
			r.With(gate.RequireMember).Get("/", okHandler)
		})

		req := httptest.NewRequest(http.MethodGet, "/accounts/"+account.ID.String()+"/members/"+membershipID.String(), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("membership of another account resolves as missing", func(t *testing.T) {
		repo := mocks.NewMockAccountRepositoryIface(ctrl)
		gate := newGate(t, repo, mocks.NewMockUserRepositoryIface(ctrl), &recordingLogger{})

		foreignID := uuid.New()
		repo.EXPECT().FindByID(gomock.Any(), account.ID).Return(account, nil)
		repo.EXPECT().
			FindMembershipByID(gomock.Any(), foreignID).
			Return(&model.AccountUser{ID: foreignID, AccountID: uuid.New()}, nil)

		rec := serve(t, gate, foreignID)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("membership of the routed account is resolved and served", func(t *testing.T) {
		repo := mocks.NewMockAccountRepositoryIface(ctrl)
		gate := newGate(t, repo, mocks.NewMockUserRepositoryIface(ctrl), &recordingLogger{})

		target := &model.AccountUser{ID: uuid.New(), AccountID: account.ID, UserID: uuid.New(), Role: model.RoleMember}

		repo.EXPECT().FindByID(gomock.Any(), account.ID).Return(account, nil)
		repo.EXPECT().FindMembershipByID(gomock.Any(), target.ID).Return(target, nil)
		repo.EXPECT().FindMembership(gomock.Any(), account.ID, user.ID).Return(callerMembership, nil)

		rec := serve(t, gate, target.ID)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireStaff(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serve := func(t *testing.T, gate *policy.Policy, caller *model.User) *httptest.ResponseRecorder {
		t.Helper()
		r := chi.NewRouter()
		r.Use(injectUser(caller))
		r.With(gate.RequireStaff).Get("/admin", okHandler)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("staff user is admitted", func(t *testing.T) {
		logger := &recordingLogger{}
		gate := newGate(t, mocks.NewMockAccountRepositoryIface(ctrl), mocks.NewMockUserRepositoryIface(ctrl), logger)

		rec := serve(t, gate, &model.User{ID: uuid.New(), IsStaff: true})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, logger.decisions, 1)
		assert.True(t, logger.decisions[0].result)
		assert.Equal(t, "staff", logger.decisions[0].permission)
	})

	t.Run("non-staff user is forbidden even with account roles", func(t *testing.T) {
		logger := &recordingLogger{}
		gate := newGate(t, mocks.NewMockAccountRepositoryIface(ctrl), mocks.NewMockUserRepositoryIface(ctrl), logger)

		rec := serve(t, gate, &model.User{ID: uuid.New()})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Len(t, logger.decisions, 1)
		assert.False(t, logger.decisions[0].result)
	})
}
