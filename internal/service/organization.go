// internal/service/organization.go
package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/repository"
)

// OrganizationService manages the tree-shaped organization hierarchy.
// Everything here sits behind the staff-only admin surface; organizations
// have no member-facing self-service routes.
type OrganizationService struct {
	repo     repository.OrganizationRepositoryIface
	userRepo repository.UserRepositoryIface
	validate *validator.Validate
}

func NewOrganizationService(repo repository.OrganizationRepositoryIface, userRepo repository.UserRepositoryIface) *OrganizationService {
	return &OrganizationService{
		repo:     repo,
		userRepo: userRepo,
		validate: validator.New(),
	}
}

type OrganizationInput struct {
	Name     string     `json:"name" validate:"required"`
	Slug     string     `json:"slug"`
	IsActive *bool      `json:"is_active"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func (s *OrganizationService) CreateOrganization(ctx context.Context, input OrganizationInput) (*model.Organization, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	slug := input.Slug
	if slug == "" {
		slug = slugify(input.Name)
	}

	if input.ParentID != nil {
		if _, err := s.repo.FindByID(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	org := &model.Organization{
		Name:     input.Name,
		Slug:     slug,
		IsActive: active,
		ParentID: input.ParentID,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}

	return org, nil
}

// UpdateOrganization edits an organization, including re-parenting. A new
// parent is rejected when it would make the node an ancestor of itself.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, id uuid.UUID, input OrganizationInput) (*model.Organization, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if err := s.checkCycle(ctx, id, *input.ParentID); err != nil {
			return nil, err
		}
	}

	org.Name = input.Name
	if input.Slug != "" {
		org.Slug = input.Slug
	}
	if input.IsActive != nil {
		org.IsActive = *input.IsActive
	}
	org.ParentID = input.ParentID

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}

	return org, nil
}

// checkCycle walks the ancestor chain from newParent towards the root and
// fails if it passes through id. The walk is bounded so a corrupted chain
// cannot spin forever.
func (s *OrganizationService) checkCycle(ctx context.Context, id, newParent uuid.UUID) error {
	const maxDepth = 64

	current := newParent
	for i := 0; i < maxDepth; i++ {
		if current == id {
			return domain.ErrOrgCycle
		}

		node, err := s.repo.FindByID(ctx, current)
		if err != nil {
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}

	return domain.ErrOrgCycle
}

func (s *OrganizationService) GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *OrganizationService) ListOrganizations(ctx context.Context) ([]*model.Organization, error) {
	return s.repo.FindAll(ctx)
}

func (s *OrganizationService) DeleteOrganization(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// OrgNode is one node of the rendered hierarchy.
type OrgNode struct {
	Organization *model.Organization `json:"organization"`
	Children     []*OrgNode          `json:"children"`
}

// Tree assembles the full forest in one pass over all organizations.
func (s *OrganizationService) Tree(ctx context.Context) ([]*OrgNode, error) {
	orgs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make(map[uuid.UUID]*OrgNode, len(orgs))
	for _, org := range orgs {
		nodes[org.ID] = &OrgNode{Organization: org}
	}

	var roots []*OrgNode
	for _, org := range orgs {
		node := nodes[org.ID]
		if org.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*org.ParentID]
		if !ok {
			// Orphaned parent reference; surface the node as a root
			// rather than dropping it.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return roots, nil
}

type OrgUserInput struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	IsAdmin   bool   `json:"is_admin"`
}

func (s *OrganizationService) AddOrgUser(ctx context.Context, orgID uuid.UUID, input OrgUserInput) (*model.OrganizationUser, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	if _, err := s.repo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, input.UserEmail)
	if err != nil {
		return nil, err
	}

	orgUser := &model.OrganizationUser{
		OrganizationID: orgID,
		UserID:         user.ID,
		IsAdmin:        input.IsAdmin,
	}

	if err := s.repo.CreateOrgUser(ctx, orgUser); err != nil {
		return nil, err
	}
	orgUser.User = *user

	return orgUser, nil
}

func (s *OrganizationService) ListOrgUsers(ctx context.Context, orgID uuid.UUID) ([]*model.OrganizationUser, error) {
	if _, err := s.repo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}
	return s.repo.FindOrgUsers(ctx, orgID)
}

func (s *OrganizationService) UpdateOrgUser(ctx context.Context, id uuid.UUID, isAdmin bool) (*model.OrganizationUser, error) {
	orgUser, err := s.repo.FindOrgUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	orgUser.IsAdmin = isAdmin
	if err := s.repo.UpdateOrgUser(ctx, orgUser); err != nil {
		return nil, err
	}

	return orgUser, nil
}

func (s *OrganizationService) RemoveOrgUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindOrgUserByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteOrgUser(ctx, id)
}

// SetOwner designates the owner membership of an organization. The
// membership must belong to that same organization.
func (s *OrganizationService) SetOwner(ctx context.Context, orgID, orgUserID uuid.UUID) (*model.OrganizationOwner, error) {
	orgUser, err := s.repo.FindOrgUserByID(ctx, orgUserID)
	if err != nil {
		return nil, err
	}

	if orgUser.OrganizationID != orgID {
		return nil, domain.ErrOwnerMembershipMismatch
	}

	owner := &model.OrganizationOwner{
		OrganizationID:     orgID,
		OrganizationUserID: orgUserID,
	}

	if err := s.repo.SetOwner(ctx, owner); err != nil {
		return nil, err
	}

	return owner, nil
}

func (s *OrganizationService) GetOwner(ctx context.Context, orgID uuid.UUID) (*model.OrganizationOwner, error) {
	return s.repo.FindOwner(ctx, orgID)
}

func (s *OrganizationService) ClearOwner(ctx context.Context, orgID uuid.UUID) error {
	return s.repo.DeleteOwner(ctx, orgID)
}
