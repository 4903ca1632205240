// internal/handler/account.go
package handler

import (
	"errors"
	"net/http"

	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/middleware"
	"github.com/harborgate/tenancy/internal/policy"
	"github.com/harborgate/tenancy/internal/service"
)

// AccountHandler serves the account CRUD endpoints. Authorization is not
// decided here: the router wraps each route in the policy gates, and by
// the time a handler runs the account and the caller have already been
// resolved and admitted.
type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// List handles GET /api/accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	accounts, err := h.accountService.ListAccounts(r.Context(), user)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
	})
}

// Create handles POST /api/accounts. The caller becomes the owner of the
// new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input service.CreateAccountInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), user.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithValidationError(w, err)
		case errors.Is(err, domain.ErrSlugAlreadyExists):
			respondWithError(w, http.StatusConflict, "An account with this slug already exists")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"account": account,
	})
}

// Detail handles GET /api/accounts/{accountID}.
func (h *AccountHandler) Detail(w http.ResponseWriter, r *http.Request) {
	account, ok := policy.AccountFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	detail, err := h.accountService.GetAccountDetail(r.Context(), account.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			respondWithError(w, http.StatusNotFound, "Account not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

// Update handles PUT /api/accounts/{accountID}.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	account, ok := policy.AccountFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var input service.UpdateAccountInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.accountService.UpdateAccount(r.Context(), account, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithValidationError(w, err)
		case errors.Is(err, domain.ErrSlugAlreadyExists):
			respondWithError(w, http.StatusConflict, "An account with this slug already exists")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"account": updated,
	})
}

// Delete handles DELETE /api/accounts/{accountID}. Owner-only.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account, ok := policy.AccountFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.accountService.DeleteAccount(r.Context(), account.ID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			respondWithError(w, http.StatusNotFound, "Account not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Account deleted",
		"redirect_url": "/api/accounts",
	})
}
