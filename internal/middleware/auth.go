// internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborgate/tenancy/internal/auth"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/repository"
	"github.com/google/uuid"
)

type userContextKey string

// UserKey is the context key under which the authenticated user is stored.
var UserKey userContextKey = "tenancy_user"

// RequireAuth validates the session (cookie or Bearer header), loads the
// user it names, and stores it in the request context. Anonymous callers
// get a 401 carrying the login location, the JSON equivalent of a
// redirect to the login view.
func RequireAuth(sessionManager *auth.SessionManager, users repository.UserRepositoryIface, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := sessionManager.FromRequest(r)
			if !ok {
				respondUnauthenticated(w, loginURL)
				return
			}

			claims, err := sessionManager.Validate(token)
			if err != nil {
				respondUnauthenticated(w, loginURL)
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				respondUnauthenticated(w, loginURL)
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					// Session for a user that no longer exists.
					respondUnauthenticated(w, loginURL)
					return
				}
				respondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserKey).(*model.User)
	return user, ok
}

func respondUnauthenticated(w http.ResponseWriter, loginURL string) {
	respondWithJSON(w, http.StatusUnauthorized, map[string]string{
		"error":        "Authentication required",
		"redirect_url": loginURL,
	})
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
