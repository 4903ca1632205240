// internal/handler/auth.go
package handler

import (
	"errors"
	"net/http"

	"github.com/harborgate/tenancy/internal/auth"
	"github.com/harborgate/tenancy/internal/config"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/service"
)

// AuthHandler serves the login and logout endpoints.
type AuthHandler struct {
	userService    *service.UserService
	sessionManager *auth.SessionManager
	config         *config.Config
}

func NewAuthHandler(userService *service.UserService, sessionManager *auth.SessionManager, config *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionManager: sessionManager,
		config:         config,
	}
}

// LoginForm handles GET /api/auth/login. Callers holding a valid session
// are short-circuited straight to their destination; everyone else gets a
// fresh one-time nonce for the submission.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.sessionManager.FromRequest(r); ok {
		if _, err := h.sessionManager.Validate(token); err == nil {
			respondWithJSON(w, http.StatusOK, map[string]interface{}{
				"authenticated": true,
				"redirect_url":  h.nextURL(r),
			})
			return
		}
	}

	nonce, err := h.userService.LoginFormNonce(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": false,
		"nonce":         nonce,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nonce    string `json:"nonce"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.userService.ConsumeNonce(r.Context(), req.Nonce); err != nil {
		if errors.Is(err, domain.ErrInvalidNonce) {
			respondWithError(w, http.StatusBadRequest, "Invalid or expired form token")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out, err := h.userService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithValidationError(w, err)
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.sessionManager.SetCookie(w, out.Token)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user":         out.User,
		"redirect_url": h.nextURL(r),
	})
}

// Logout handles POST /api/auth/logout. It is idempotent: clearing an
// absent session is still a success. The route accepts POST only, so a
// crawled or prefetched GET can never end a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessionManager.ClearCookie(w)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "You have successfully logged out.",
		"redirect_url": h.config.LoginURL,
	})
}

// nextURL picks the post-login destination. Only relative paths are
// honored so the login flow cannot be used as an open redirector.
func (h *AuthHandler) nextURL(r *http.Request) string {
	next := r.URL.Query().Get("next")
	if next != "" && next[0] == '/' && (len(next) == 1 || next[1] != '/') {
		return next
	}
	return h.config.LoginRedirectURL
}
