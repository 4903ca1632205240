// internal/repository/organization.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/model"
	"gorm.io/gorm"
)

type OrganizationRepositoryIface interface {
	Create(ctx context.Context, org *model.Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	FindBySlug(ctx context.Context, slug string) (*model.Organization, error)
	FindAll(ctx context.Context) ([]*model.Organization, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]*model.Organization, error)
	Update(ctx context.Context, org *model.Organization) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateOrgUser(ctx context.Context, orgUser *model.OrganizationUser) error
	FindOrgUserByID(ctx context.Context, id uuid.UUID) (*model.OrganizationUser, error)
	FindOrgUsers(ctx context.Context, orgID uuid.UUID) ([]*model.OrganizationUser, error)
	UpdateOrgUser(ctx context.Context, orgUser *model.OrganizationUser) error
	DeleteOrgUser(ctx context.Context, id uuid.UUID) error

	SetOwner(ctx context.Context, owner *model.OrganizationOwner) error
	FindOwner(ctx context.Context, orgID uuid.UUID) (*model.OrganizationOwner, error)
	DeleteOwner(ctx context.Context, orgID uuid.UUID) error
}

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrSlugAlreadyExists
		}
		return fmt.Errorf("creating organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) FindBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization: %w", err)
	}
	return &org, nil
}

// FindAll returns all organizations
func (r *OrganizationRepository) FindAll(ctx context.Context) ([]*model.Organization, error) {
	var orgs []*model.Organization
	if err := r.db.WithContext(ctx).Order("name").Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("failed to find all organizations: %w", err)
	}
	return orgs, nil
}

func (r *OrganizationRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]*model.Organization, error) {
	var orgs []*model.Organization
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("name").Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("finding child organizations: %w", err)
	}
	return orgs, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Save(org).Error; err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrSlugAlreadyExists
		}
		return fmt.Errorf("updating organization: %w", err)
	}
	return nil
}

// Delete removes the organization along with its memberships and owner
// record. Children are re-parented to the deleted node's parent so the
// rest of the subtree survives.
func (r *OrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var org model.Organization
		if err := tx.First(&org, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrganizationNotFound
			}
			return fmt.Errorf("finding organization: %w", err)
		}

		if err := tx.Model(&model.Organization{}).
			Where("parent_id = ?", id).
			Update("parent_id", org.ParentID).Error; err != nil {
			return fmt.Errorf("re-parenting children: %w", err)
		}

		if err := tx.Where("organization_id = ?", id).Delete(&model.OrganizationOwner{}).Error; err != nil {
			return fmt.Errorf("deleting organization owner: %w", err)
		}

		if err := tx.Where("organization_id = ?", id).Delete(&model.OrganizationUser{}).Error; err != nil {
			return fmt.Errorf("deleting organization users: %w", err)
		}

		if err := tx.Delete(&model.Organization{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting organization: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func (r *OrganizationRepository) CreateOrgUser(ctx context.Context, orgUser *model.OrganizationUser) error {
	if err := r.db.WithContext(ctx).Create(orgUser).Error; err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrDuplicateOrgUser
		}
		return fmt.Errorf("creating organization user: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) FindOrgUserByID(ctx context.Context, id uuid.UUID) (*model.OrganizationUser, error) {
	var orgUser model.OrganizationUser
	if err := r.db.WithContext(ctx).Preload("User").First(&orgUser, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrgUserNotFound
		}
		return nil, fmt.Errorf("finding organization user: %w", err)
	}
	return &orgUser, nil
}

func (r *OrganizationRepository) FindOrgUsers(ctx context.Context, orgID uuid.UUID) ([]*model.OrganizationUser, error) {
	var orgUsers []*model.OrganizationUser
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", orgID).
		Find(&orgUsers).Error; err != nil {
		return nil, fmt.Errorf("finding organization users: %w", err)
	}
	return orgUsers, nil
}

func (r *OrganizationRepository) UpdateOrgUser(ctx context.Context, orgUser *model.OrganizationUser) error {
	if err := r.db.WithContext(ctx).Save(orgUser).Error; err != nil {
		return fmt.Errorf("updating organization user: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) DeleteOrgUser(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The owner record hangs off the membership; drop it first.
		if err := tx.Where("organization_user_id = ?", id).Delete(&model.OrganizationOwner{}).Error; err != nil {
			return fmt.Errorf("deleting owner record: %w", err)
		}

		if err := tx.Delete(&model.OrganizationUser{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting organization user: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// SetOwner designates the owner membership for an organization, replacing
// any previous owner. At most one owner exists per organization.
func (r *OrganizationRepository) SetOwner(ctx context.Context, owner *model.OrganizationOwner) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", owner.OrganizationID).Delete(&model.OrganizationOwner{}).Error; err != nil {
			return fmt.Errorf("clearing previous owner: %w", err)
		}

		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("creating owner: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func (r *OrganizationRepository) FindOwner(ctx context.Context, orgID uuid.UUID) (*model.OrganizationOwner, error) {
	var owner model.OrganizationOwner
	if err := r.db.WithContext(ctx).
		Preload("OrganizationUser").
		Preload("OrganizationUser.User").
		Where("organization_id = ?", orgID).
		First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding organization owner: %w", err)
	}
	return &owner, nil
}

func (r *OrganizationRepository) DeleteOwner(ctx context.Context, orgID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("organization_id = ?", orgID).Delete(&model.OrganizationOwner{}).Error; err != nil {
		return fmt.Errorf("deleting organization owner: %w", err)
	}
	return nil
}
