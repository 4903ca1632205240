// internal/handler/profile.go
package handler

import (
	"errors"
	"net/http"

	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/middleware"
	"github.com/harborgate/tenancy/internal/service"
)

// ProfileHandler serves the self-service profile endpoints. The subject is
// always the session identity; no id is taken from the route, so one user
// can never address another's profile here.
type ProfileHandler struct {
	userService *service.UserService
}

func NewProfileHandler(userService *service.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// Show handles GET /api/profile.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input service.UpdateProfileInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithValidationError(w, err)
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondWithError(w, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			respondWithError(w, http.StatusConflict, "A user with this email already exists")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user": updated,
	})
}
