// internal/model/account.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type AccountRole string

const (
	RoleMember AccountRole = "member"
	RoleAdmin  AccountRole = "admin"
	RoleOwner  AccountRole = "owner"
)

// Valid reports whether the role is one of the known membership roles.
func (r AccountRole) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// AtLeast reports whether the role grants the privileges of min.
// Ordering: member < admin < owner.
func (r AccountRole) AtLeast(min AccountRole) bool {
	rank := map[AccountRole]int{RoleMember: 1, RoleAdmin: 2, RoleOwner: 3}
	return rank[r] >= rank[min]
}

// Account is a tenant. Every account is created together with exactly one
// owner membership; further members arrive through AccountUser rows.
type Account struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Slug        string    `gorm:"type:text;uniqueIndex;not null" json:"slug"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	CreatedBy User          `gorm:"foreignKey:CreatedByID" json:"-"`
	Users     []AccountUser `gorm:"foreignKey:AccountID" json:"-"`
}

// AccountUser links a user to an account with a role.
// (account_id, user_id) is unique.
type AccountUser struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AccountID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_account_user" json:"account_id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_account_user" json:"user_id"`
	Role      AccountRole `gorm:"type:text;not null;default:'member'" json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"user"`
}
