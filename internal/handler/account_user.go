// internal/handler/account_user.go
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/middleware"
	"github.com/harborgate/tenancy/internal/policy"
	"github.com/harborgate/tenancy/internal/service"
)

// AccountUserHandler serves the membership endpoints nested under an
// account. The membership routes always operate on the account resolved
// from the URL; ids in request bodies are never trusted for binding.
type AccountUserHandler struct {
	accountService *service.AccountService
}

func NewAccountUserHandler(accountService *service.AccountService) *AccountUserHandler {
	return &AccountUserHandler{accountService: accountService}
}

// List handles GET /api/accounts/{accountID}/members. An account with no
// memberships reads as missing unless ?allow_empty=1 is passed.
func (h *AccountUserHandler) List(w http.ResponseWriter, r *http.Request) {
	account, ok := policy.AccountFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	allowEmpty := r.URL.Query().Get("allow_empty") == "1"

	members, err := h.accountService.ListMembers(r.Context(), account.ID, allowEmpty)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMemberList) {
			respondWithError(w, http.StatusNotFound, "Account has no members")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"account_users": members,
	})
}

// Create handles POST /api/accounts/{accountID}/members. Admin-only.
func (h *AccountUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, ok := policy.AccountFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	inviter, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input service.AddMemberInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	membership, err := h.accountService.AddMember(r.Context(), account, inviter, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithValidationError(w, err)
		case errors.Is(err, domain.ErrInvalidRole):
			respondWithError(w, http.StatusBadRequest, "Invalid role")
		case errors.Is(err, domain.ErrUserNotFound):
			respondWithError(w, http.StatusBadRequest, "No user with this email")
		case errors.Is(err, domain.ErrDuplicateMembership):
			respondWithError(w, http.StatusConflict, "User is already a member of this account")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"account_user": membership,
	})
}

// Detail handles GET /api/accounts/{accountID}/members/{membershipID}.
func (h *AccountUserHandler) Detail(w http.ResponseWriter, r *http.Request) {
	membership, ok := policy.MembershipFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"account_user": membership,
	})
}

// Update handles PUT /api/accounts/{accountID}/members/{membershipID}.
func (h *AccountUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	membership, ok := policy.MembershipFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var input service.UpdateMembershipInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.accountService.UpdateMembership(r.Context(), membership, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithValidationError(w, err)
		case errors.Is(err, domain.ErrInvalidRole):
			respondWithError(w, http.StatusBadRequest, "Invalid role")
		case errors.Is(err, domain.ErrLastOwner):
			respondWithError(w, http.StatusConflict, "Cannot demote the only owner of an account")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"account_user": updated,
	})
}

// Delete handles DELETE /api/accounts/{accountID}/members/{membershipID}.
func (h *AccountUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	membership, ok := policy.MembershipFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.accountService.RemoveMembership(r.Context(), membership); err != nil {
		switch {
		case errors.Is(err, domain.ErrLastOwner):
			respondWithError(w, http.StatusConflict, "Cannot remove the only owner of an account")
		case errors.Is(err, domain.ErrMembershipNotFound):
			respondWithError(w, http.StatusNotFound, "Membership not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Membership removed",
		"redirect_url": fmt.Sprintf("/api/accounts/%s/members", membership.AccountID),
	})
}
