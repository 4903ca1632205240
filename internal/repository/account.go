// internal/repository/account.go
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

type AccountRepositoryIface interface {
	CreateWithOwner(ctx context.Context, account *model.Account, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.Account, error)
	FindAll(ctx context.Context) ([]*model.Account, error)
	Update(ctx context.Context, account *model.Account) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindMembers(ctx context.Context, accountID uuid.UUID) ([]*model.AccountUser, error)
	FindMembership(ctx context.Context, accountID, userID uuid.UUID) (*model.AccountUser, error)
	FindMembershipByID(ctx context.Context, id uuid.UUID) (*model.AccountUser, error)
	CreateMembership(ctx context.Context, membership *model.AccountUser) error
	UpdateMembership(ctx context.Context, membership *model.AccountUser) error
	DeleteMembership(ctx context.Context, id uuid.UUID) error
	CountOwners(ctx context.Context, accountID uuid.UUID) (int64, error)
}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateWithOwner inserts the account and its owner membership in one
// transaction, so an account never exists without an owner.
func (r *AccountRepository) CreateWithOwner(ctx context.Context, account *model.Account, ownerID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("creating account: %w", err)
		}

		owner := &model.AccountUser{
			AccountID: account.ID,
			UserID:    ownerID,
			Role:      model.RoleOwner,
		}
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("creating owner membership: %w", err)
		}

		return nil
	})

	if err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrSlugAlreadyExists
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("finding account: %w", err)
	}
	return &account, nil
}

// FindByUser returns the accounts the user has a membership in.
func (r *AccountRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.Account, error) {
	var accounts []*model.Account
	if err := r.db.WithContext(ctx).
		Joins("JOIN account_users ON accounts.id = account_users.account_id").
		Where("account_users.user_id = ?", userID).
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("finding user accounts: %w", err)
	}
	return accounts, nil
}

// FindAll returns all accounts
func (r *AccountRepository) FindAll(ctx context.Context) ([]*model.Account, error) {
	var accounts []*model.Account
	if err := r.db.WithContext(ctx).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to find all accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) Update(ctx context.Context, account *model.Account) error {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrSlugAlreadyExists
		}
		return fmt.Errorf("updating account: %w", err)
	}
	return nil
}

// Delete removes the account and its memberships in one transaction.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&model.AccountUser{}).Error; err != nil {
			return fmt.Errorf("deleting account memberships: %w", err)
		}

		if err := tx.Delete(&model.Account{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting account: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// FindMembers returns all memberships of the account with users preloaded.
func (r *AccountRepository) FindMembers(ctx context.Context, accountID uuid.UUID) ([]*model.AccountUser, error) {
	var members []*model.AccountUser
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("account_id = ?", accountID).
		Order("created_at").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("finding account members: %w", err)
	}
	return members, nil
}

func (r *AccountRepository) FindMembership(ctx context.Context, accountID, userID uuid.UUID) (*model.AccountUser, error) {
	var membership model.AccountUser
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND user_id = ?", accountID, userID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("finding membership: %w", err)
	}
	return &membership, nil
}

func (r *AccountRepository) FindMembershipByID(ctx context.Context, id uuid.UUID) (*model.AccountUser, error) {
	var membership model.AccountUser
	if err := r.db.WithContext(ctx).Preload("User").First(&membership, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("finding membership: %w", err)
	}
	return &membership, nil
}

func (r *AccountRepository) CreateMembership(ctx context.Context, membership *model.AccountUser) error {
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrDuplicateMembership
		}
		return fmt.Errorf("creating membership: %w", err)
	}
	return nil
}

func (r *AccountRepository) UpdateMembership(ctx context.Context, membership *model.AccountUser) error {
	if err := r.db.WithContext(ctx).Save(membership).Error; err != nil {
		return fmt.Errorf("updating membership: %w", err)
	}
	return nil
}

func (r *AccountRepository) DeleteMembership(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&model.AccountUser{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}
	return nil
}

// CountOwners returns the number of owner memberships on the account.
func (r *AccountRepository) CountOwners(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.AccountUser{}).
		Where("account_id = ? AND role = ?", accountID, model.RoleOwner).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting owners: %w", err)
	}
	return count, nil
}
