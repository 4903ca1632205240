// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// Cache-related errors
	ErrInvalidNonce = errors.New("invalid nonce")

	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooWeak    = errors.New("password too weak")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Account-related errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrSlugAlreadyExists   = errors.New("slug already exists")
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrDuplicateMembership = errors.New("user is already a member of this account")
	ErrLastOwner           = errors.New("account must retain at least one owner")
	ErrInvalidRole         = errors.New("invalid membership role")
	ErrEmptyMemberList     = errors.New("account has no members")

	// Organization-related errors
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrOrgUserNotFound         = errors.New("organization user not found")
	ErrDuplicateOrgUser        = errors.New("user is already a member of this organization")
	ErrOrgCycle                = errors.New("organization hierarchy must not contain cycles")
	ErrOwnerMembershipMismatch = errors.New("owner must reference a membership of the same organization")
)
