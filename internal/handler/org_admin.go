// internal/handler/org_admin.go
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/service"
)

// OrgAdminHandler serves the staff-only organization console. Every route
// here sits behind the staff gate; there is no member-facing organization
// surface.
type OrgAdminHandler struct {
	orgService *service.OrganizationService
}

func NewOrgAdminHandler(orgService *service.OrganizationService) *OrgAdminHandler {
	return &OrgAdminHandler{orgService: orgService}
}

func orgIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// List handles GET /api/admin/orgs.
func (h *OrgAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgService.ListOrganizations(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"organizations": orgs,
	})
}

// Tree handles GET /api/admin/orgs/tree, returning the full hierarchy.
func (h *OrgAdminHandler) Tree(w http.ResponseWriter, r *http.Request) {
	roots, err := h.orgService.Tree(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"tree": roots,
	})
}

// Create handles POST /api/admin/orgs.
func (h *OrgAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.OrganizationInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	org, err := h.orgService.CreateOrganization(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithValidationError(w, err)
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusBadRequest, "Parent organization not found")
		case errors.Is(err, domain.ErrSlugAlreadyExists):
			respondWithError(w, http.StatusConflict, "An organization with this slug already exists")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"organization": org,
	})
}

// Detail handles GET /api/admin/orgs/{orgID}.
func (h *OrgAdminHandler) Detail(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r, "orgID")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Organization not found")
		return
	}

	org, err := h.orgService.GetOrganization(r.Context(), orgID)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			respondWithError(w, http.StatusNotFound, "Organization not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"organization": org,
	})
}

// Update handles PUT /api/admin/orgs/{orgID}, including re-parenting.
func (h *OrgAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r, "orgID")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Organization not found")
		return
	}

	var input service.OrganizationInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	org, err := h.orgService.UpdateOrganization(r.Context(), orgID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithValidationError(w, err)
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrOrgCycle):
			respondWithError(w, http.StatusConflict, "Re-parenting would create a cycle in the hierarchy")
		case errors.Is(err, domain.ErrSlugAlreadyExists):
			respondWithError(w, http.StatusConflict, "An organization with this slug already exists")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"organization": org,
	})
}

// Delete handles DELETE /api/admin/orgs/{orgID}. Children of the deleted
// node are re-parented to its parent.
func (h *OrgAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r, "orgID")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Organization not found")
		return
	}

	if err := h.orgService.DeleteOrganization(r.Context(), orgID); err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			respondWithError(w, http.StatusNotFound, "Organization not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Organization deleted",
	})
}

// ListUsers handles GET /api/admin/orgs/{orgID}/users.
func (h *OrgAdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r, "orgID")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Organization not found")
		return
	}

	orgUsers, err := h.orgService.ListOrgUsers(r.Context(), orgID)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			respondWithError(w, http.StatusNotFound, "Organization not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"organization_users": orgUsers,
	})
}

// AddUser handles POST /api/admin/orgs/{orgID}/users.
func (h *OrgAdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r, "orgID")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Organization not found")
		return
	}

	var input service.OrgUserInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	orgUser, err := h.orgService.AddOrgUser(r.Context(), orgID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithValidationError(w, err)
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrUserNotFound):
			respondWithError(w, http.StatusBadRequest, "No user with this email")
		case errors.Is(err, domain.ErrDuplicateOrgUser):
			respondWithError(w, http.StatusConflict, "User already belongs to this organization")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"organization_user": orgUser,
	})
}

type updateOrgUserRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// UpdateUser handles PUT /api/admin/orgs/{orgID}/users/{orgUserID}.
func (h *OrgAdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	orgUserID, err := orgIDParam(r, "orgUserID")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Organization user not found")
		return
	}

	var req updateOrgUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	orgUser, err := h.orgService.UpdateOrgUser(r.Context(), orgUserID, req.IsAdmin)
	if err != nil {
		if errors.Is(err, domain.ErrOrgUserNotFound) {
			respondWithError(w, http.StatusNotFound, "Organization user not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"organization_user": orgUser,
	})
}

// RemoveUser handles DELETE /api/admin/orgs/{orgID}/users/{orgUserID}.
// An owner record pointing at the membership goes with it.
func (h *OrgAdminHandler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	orgUserID, err := orgIDParam(r, "orgUserID")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Organization user not found")
		return
	}

	if err := h.orgService.RemoveOrgUser(r.Context(), orgUserID); err != nil {
		if errors.Is(err, domain.ErrOrgUserNotFound) {
			respondWithError(w, http.StatusNotFound, "Organization user not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Organization user removed",
	})
}

type setOwnerRequest struct {
	OrganizationUserID uuid.UUID `json:"organization_user_id"`
}

// SetOwner handles PUT /api/admin/orgs/{orgID}/owner, replacing any
// previous owner designation.
func (h *OrgAdminHandler) SetOwner(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r, "orgID")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Organization not found")
		return
	}

	var req setOwnerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	owner, err := h.orgService.SetOwner(r.Context(), orgID, req.OrganizationUserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrgUserNotFound):
			respondWithError(w, http.StatusBadRequest, "Organization user not found")
		case errors.Is(err, domain.ErrOwnerMembershipMismatch):
			respondWithError(w, http.StatusBadRequest, "Owner must be a member of the same organization")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"organization_owner": owner,
	})
}

// GetOwner handles GET /api/admin/orgs/{orgID}/owner.
func (h *OrgAdminHandler) GetOwner(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r, "orgID")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Organization not found")
		return
	}

	owner, err := h.orgService.GetOwner(r.Context(), orgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Organization has no owner")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"organization_owner": owner,
	})
}

// ClearOwner handles DELETE /api/admin/orgs/{orgID}/owner.
func (h *OrgAdminHandler) ClearOwner(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r, "orgID")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Organization not found")
		return
	}

	if err := h.orgService.ClearOwner(r.Context(), orgID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Organization owner cleared",
	})
}
