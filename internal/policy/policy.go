// Package policy implements route access control as explicit, composable
// middleware. Every protected route is built from three stages in order:
// resource resolution (AccountCtx, MembershipCtx), an authorization gate
// (RequireMember, RequireAdmin, RequireOwner, RequireStaff), and finally
// the handler. Each stage reads only what earlier stages placed in the
// request context; there is no shared mutable registry behind them.
package policy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/audit"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/middleware"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/service"
)

type contextKey string

const (
	// AccountKey holds the account resolved from the route.
	AccountKey contextKey = "policy_account"
	// MembershipKey holds the membership resolved from the route.
	MembershipKey contextKey = "policy_membership"
	// CallerMembershipKey holds the caller's own membership on the
	// resolved account, placed by the role gates.
	CallerMembershipKey contextKey = "policy_caller_membership"
)

// Policy evaluates access gates against account memberships and records
// every decision.
type Policy struct {
	accounts    *service.AccountService
	auditLogger audit.Logger
}

func New(accounts *service.AccountService, auditLogger audit.Logger) *Policy {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &Policy{accounts: accounts, auditLogger: auditLogger}
}

// AccountCtx resolves the {accountID} route parameter into an account and
// stores it in the request context. Unknown or malformed ids are a 404;
// existence is not revealed before authorization runs.
func (p *Policy) AccountCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Account not found")
			return
		}

		account, err := p.accounts.GetAccount(r.Context(), accountID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				respondWithError(w, http.StatusNotFound, "Account not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), AccountKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MembershipCtx resolves {membershipID} scoped to the account placed by
// AccountCtx. A membership belonging to a different account is a 404.
func (p *Policy) MembershipCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFromContext(r.Context())
		if !ok {
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		membershipID, err := uuid.Parse(chi.URLParam(r, "membershipID"))
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Membership not found")
			return
		}

		membership, err := p.accounts.GetMembership(r.Context(), account.ID, membershipID)
		if err != nil {
			if errors.Is(err, domain.ErrMembershipNotFound) {
				respondWithError(w, http.StatusNotFound, "Membership not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), MembershipKey, membership)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireMember admits callers holding any membership on the resolved
// account.
func (p *Policy) RequireMember(next http.Handler) http.Handler {
	return p.requireRole(model.RoleMember, next)
}

// RequireAdmin admits admins and owners of the resolved account.
func (p *Policy) RequireAdmin(next http.Handler) http.Handler {
	return p.requireRole(model.RoleAdmin, next)
}

// RequireOwner admits only owners of the resolved account.
func (p *Policy) RequireOwner(next http.Handler) http.Handler {
	return p.requireRole(model.RoleOwner, next)
}

func (p *Policy) requireRole(min model.AccountRole, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		account, ok := AccountFromContext(r.Context())
		if !ok {
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		membership, err := p.accounts.Membership(r.Context(), account.ID, user.ID)
		if err != nil && !errors.Is(err, domain.ErrMembershipNotFound) {
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		allowed := membership != nil && membership.Role.AtLeast(min)
		p.logDecision(r, user, account, string(min), allowed)

		if !allowed {
			respondWithError(w, http.StatusForbidden, "You do not have permission to access this account")
			return
		}

		ctx := context.WithValue(r.Context(), CallerMembershipKey, membership)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff admits only staff users. It carries no account context and
// guards the admin surface.
func (p *Policy) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		allowed := user.IsStaff
		p.logDecision(r, user, nil, "staff", allowed)

		if !allowed {
			respondWithError(w, http.StatusForbidden, "Staff access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (p *Policy) logDecision(r *http.Request, user *model.User, account *model.Account, permission string, result bool) {
	subject := model.Subject{Type: "user", ID: user.ID.String()}
	object := model.Object{Type: "admin", ID: ""}
	if account != nil {
		object = model.Object{Type: "account", ID: account.ID.String()}
	}

	err := p.auditLogger.LogGateDecision(r.Context(), subject, permission, object, result, map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
	}, r)
	if err != nil {
		slog.Warn("failed to audit gate decision", "error", err, "permission", permission)
	}
}

// AccountFromContext returns the account resolved by AccountCtx.
func AccountFromContext(ctx context.Context) (*model.Account, bool) {
	account, ok := ctx.Value(AccountKey).(*model.Account)
	return account, ok
}

// MembershipFromContext returns the membership resolved by MembershipCtx.
func MembershipFromContext(ctx context.Context) (*model.AccountUser, bool) {
	membership, ok := ctx.Value(MembershipKey).(*model.AccountUser)
	return membership, ok
}

// CallerMembershipFromContext returns the caller's own membership placed
// by the role gates.
func CallerMembershipFromContext(ctx context.Context) (*model.AccountUser, bool) {
	membership, ok := ctx.Value(CallerMembershipKey).(*model.AccountUser)
	return membership, ok
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
