// internal/model/organization.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a node in a forest: ParentID is nil for roots and
// otherwise points at another organization. The service layer rejects
// re-parenting that would introduce a cycle.
type Organization struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string     `gorm:"type:text;not null" json:"name"`
	Slug      string     `gorm:"type:text;uniqueIndex;not null" json:"slug"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	ParentID  *uuid.UUID `gorm:"type:uuid" json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Parent   *Organization  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Organization `gorm:"foreignKey:ParentID" json:"-"`
}

// OrganizationUser links a user to an organization.
// (organization_id, user_id) is unique.
type OrganizationUser struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_org_user" json:"organization_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_org_user" json:"user_id"`
	IsAdmin        bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	User         User         `gorm:"foreignKey:UserID" json:"user"`
}

// OrganizationOwner marks one OrganizationUser as the distinguished owner
// of an organization. The unique index on organization_id keeps it to at
// most one owner per organization.
type OrganizationOwner struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"organization_id"`
	OrganizationUserID uuid.UUID `gorm:"type:uuid;not null" json:"organization_user_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Organization     Organization     `gorm:"foreignKey:OrganizationID" json:"-"`
	OrganizationUser OrganizationUser `gorm:"foreignKey:OrganizationUserID" json:"organization_user"`
}
