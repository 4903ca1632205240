// internal/service/account.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/audit"
	"github.com/harborgate/tenancy/internal/config"
	"github.com/harborgate/tenancy/internal/domain"
	"github.com/harborgate/tenancy/internal/email"
	"github.com/harborgate/tenancy/internal/email/mailer"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/repository"
)

type AccountService struct {
	repo         repository.AccountRepositoryIface
	userRepo     repository.UserRepositoryIface
	emailService *email.Service
	auditLogger  audit.Logger
	config       *config.Config
	validate     *validator.Validate
}

func NewAccountService(
	repo repository.AccountRepositoryIface,
	userRepo repository.UserRepositoryIface,
	emailService *email.Service,
	auditLogger audit.Logger,
	config *config.Config,
) *AccountService {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &AccountService{
		repo:         repo,
		userRepo:     userRepo,
		emailService: emailService,
		auditLogger:  auditLogger,
		config:       config,
		validate:     validator.New(),
	}
}

type CreateAccountInput struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug"`
}

// CreateAccount creates a new account owned by the calling user. The
// account and its owner membership are committed together.
func (s *AccountService) CreateAccount(ctx context.Context, ownerID uuid.UUID, input CreateAccountInput) (*model.Account, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	slug := input.Slug
	if slug == "" {
		slug = slugify(input.Name)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: name does not produce a usable slug", domain.ErrInvalidInput)
	}

	account := &model.Account{
		Name:        input.Name,
		Slug:        slug,
		CreatedByID: ownerID,
	}

	if err := s.repo.CreateWithOwner(ctx, account, ownerID); err != nil {
		return nil, err
	}

	if err := s.auditLogger.LogEntityCreate(ctx, "account", account.ID.String(), map[string]interface{}{
		"name": account.Name,
		"slug": account.Slug,
	}, nil); err != nil {
		slog.Warn("failed to audit account creation", "error", err, "account_id", account.ID)
	}

	return account, nil
}

// ListAccounts returns the accounts visible to the user: staff see every
// account, everyone else sees only the accounts they belong to.
func (s *AccountService) ListAccounts(ctx context.Context, user *model.User) ([]*model.Account, error) {
	if user.IsStaff {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByUser(ctx, user.ID)
}

type AccountDetail struct {
	Account *model.Account       `json:"account"`
	Members []*model.AccountUser `json:"account_users"`
}

// GetAccountDetail returns the account together with its full member list.
func (s *AccountService) GetAccountDetail(ctx context.Context, accountID uuid.UUID) (*AccountDetail, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.FindMembers(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &AccountDetail{Account: account, Members: members}, nil
}

type UpdateAccountInput struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug"`
}

func (s *AccountService) UpdateAccount(ctx context.Context, account *model.Account, input UpdateAccountInput) (*model.Account, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	account.Name = input.Name
	if input.Slug != "" {
		account.Slug = input.Slug
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// DeleteAccount removes the account and all its memberships. This is the
// one path that may remove the final owner.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	if err := s.repo.Delete(ctx, accountID); err != nil {
		return err
	}

	if err := s.auditLogger.LogEntityDelete(ctx, "account", accountID.String(), nil); err != nil {
		slog.Warn("failed to audit account deletion", "error", err, "account_id", accountID)
	}

	return nil
}

// ListMembers returns the account's memberships. An empty list is treated
// as a not-found condition unless allowEmpty is set.
func (s *AccountService) ListMembers(ctx context.Context, accountID uuid.UUID, allowEmpty bool) ([]*model.AccountUser, error) {
	members, err := s.repo.FindMembers(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if len(members) == 0 && !allowEmpty {
		return nil, domain.ErrEmptyMemberList
	}

	return members, nil
}

type AddMemberInput struct {
	Email string            `json:"email" validate:"required,email"`
	Role  model.AccountRole `json:"role"`
}

// AddMember creates a membership on the given account. The account always
// comes from the resolved route resource; any account id in the request
// body is ignored, so a caller cannot graft themselves onto an arbitrary
// account by tampering with the form.
func (s *AccountService) AddMember(ctx context.Context, account *model.Account, inviter *model.User, input AddMemberInput) (*model.AccountUser, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	role := input.Role
	if role == "" {
		role = model.RoleMember
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	membership := &model.AccountUser{
		AccountID: account.ID,
		UserID:    user.ID,
		Role:      role,
	}

	if err := s.repo.CreateMembership(ctx, membership); err != nil {
		return nil, err
	}
	membership.User = *user

	// The notice is best-effort; membership creation has already
	// committed.
	if s.emailService != nil {
		inviterName := inviter.FirstName
		if inviter.LastName != "" {
			inviterName += " " + inviter.LastName
		}
		err := mailer.SendMemberInviteEmail(s.emailService, user.Email, mailer.MemberInviteTemplateData{
			FirstName:   user.FirstName,
			InviterName: inviterName,
			AccountName: account.Name,
			Role:        string(role),
			AccountLink: fmt.Sprintf("%s/api/accounts/%s", s.config.BaseURL, account.ID),
		})
		if err != nil {
			slog.Warn("failed to send membership notice", "error", err, "account_id", account.ID, "user_id", user.ID)
		}
	}

	return membership, nil
}

// GetMembership returns a membership by id, scoped to the account: a
// membership id belonging to a different account is a not-found, not a
// leak.
func (s *AccountService) GetMembership(ctx context.Context, accountID, membershipID uuid.UUID) (*model.AccountUser, error) {
	membership, err := s.repo.FindMembershipByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.AccountID != accountID {
		return nil, domain.ErrMembershipNotFound
	}
	return membership, nil
}

type UpdateMembershipInput struct {
	Role model.AccountRole `json:"role" validate:"required"`
}

// UpdateMembership changes a membership role. Demoting the last owner is
// rejected so an account can never end up ownerless.
func (s *AccountService) UpdateMembership(ctx context.Context, membership *model.AccountUser, input UpdateMembershipInput) (*model.AccountUser, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if membership.Role == model.RoleOwner && input.Role != model.RoleOwner {
		owners, err := s.repo.CountOwners(ctx, membership.AccountID)
		if err != nil {
			return nil, err
		}
		if owners <= 1 {
			return nil, domain.ErrLastOwner
		}
	}

	membership.Role = input.Role
	if err := s.repo.UpdateMembership(ctx, membership); err != nil {
		return nil, err
	}

	return membership, nil
}

// RemoveMembership deletes a membership, refusing to remove the last
// owner.
func (s *AccountService) RemoveMembership(ctx context.Context, membership *model.AccountUser) error {
	if membership.Role == model.RoleOwner {
		owners, err := s.repo.CountOwners(ctx, membership.AccountID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return domain.ErrLastOwner
		}
	}

	return s.repo.DeleteMembership(ctx, membership.ID)
}

// Membership resolves the caller's membership on an account, if any.
func (s *AccountService) Membership(ctx context.Context, accountID, userID uuid.UUID) (*model.AccountUser, error) {
	return s.repo.FindMembership(ctx, accountID, userID)
}

// GetAccount returns an account by id.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return s.repo.FindByID(ctx, id)
}
