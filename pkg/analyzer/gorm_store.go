package analyzer

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"iam-mirror/pkg/model"
)

// Ensure GormStore implements Store
var _ Store = (*GormStore)(nil)

// GormStore implements Store using GORM for database operations.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transaction wraps operations in a database transaction.
func (s *GormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// GetAccount retrieves a watched account by its 12-digit account ID.
func (s *GormStore) GetAccount(id string) (*model.Account, error) {
	var account model.Account
	if err := s.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return &account, nil
}

// ListAccounts returns all watched accounts.
func (s *GormStore) ListAccounts() ([]model.Account, error) {
	var accounts []model.Account
	if err := s.db.Order("id").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpsertAccount creates or fully replaces a watched account record.
func (s *GormStore) UpsertAccount(account *model.Account) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"account_name", "role_arn", "roles_to_analyze"}),
	}).Create(account).Error
}

// EnsureAccount creates the account row if absent and refreshes its display
// name if present.
func (s *GormStore) EnsureAccount(id, accountName, roleArn string) error {
	account := model.Account{
		ID:             id,
		AccountName:    accountName,
		RoleArn:        roleArn,
		RolesToAnalyze: model.RoleList{},
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"account_name"}),
	}).Create(&account).Error
}

// DeleteAccount removes an account and all of its mirrored state.
func (s *GormStore) DeleteAccount(id string) error {
	return s.db.Delete(&model.Account{}, "id = ?", id).Error
}

// PersistedRoleNames returns the names of all roles currently mirrored for
// an account.
func (s *GormStore) PersistedRoleNames(accountID string) ([]string, error) {
	var names []string
	err := s.db.Model(&model.Role{}).
		Where("account_id = ?", accountID).
		Order("role_name").
		Pluck("role_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list role names for account %s: %w", accountID, err)
	}
	return names, nil
}

// FindRole retrieves a mirrored role.
func (s *GormStore) FindRole(accountID, roleName string) (*model.Role, error) {
	var role model.Role
	err := s.db.First(&role, "account_id = ? AND role_name = ?", accountID, roleName).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find role %s in account %s: %w", roleName, accountID, err)
	}
	return &role, nil
}

// CreateRole creates a role row and populates role.ID.
func (s *GormStore) CreateRole(role *model.Role) error {
	if err := s.db.Create(role).Error; err != nil {
		return fmt.Errorf("failed to create role %s in account %s: %w", role.RoleName, role.AccountID, err)
	}
	return nil
}

// ListRoles returns all mirrored roles for an account.
func (s *GormStore) ListRoles(accountID string) ([]model.Role, error) {
	var roles []model.Role
	if err := s.db.Where("account_id = ?", accountID).Order("role_name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles for account %s: %w", accountID, err)
	}
	return roles, nil
}

// DeleteRole removes a mirrored role and its dependent rows. The dependent
// deletes are explicit rather than relying on the schema's cascades.
func (s *GormStore) DeleteRole(accountID, roleName string) error {
	role, err := s.FindRole(accountID, roleName)
	if err != nil {
		return err
	}
	if role == nil {
		return nil
	}

	if err := s.db.Delete(&model.AttachedPolicy{}, "role_id = ?", role.ID).Error; err != nil {
		return err
	}
	if err := s.db.Delete(&model.InlinePolicy{}, "role_id = ?", role.ID).Error; err != nil {
		return err
	}
	if err := s.db.Delete(&model.TrustedUser{}, "role_id = ?", role.ID).Error; err != nil {
		return err
	}
	return s.db.Delete(&model.Role{}, "id = ?", role.ID).Error
}

// CreateAttachedPolicy records a managed policy document for a role.
func (s *GormStore) CreateAttachedPolicy(policy *model.AttachedPolicy) error {
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(policy).Error
}

// CreateInlinePolicy records an inline policy document for a role.
func (s *GormStore) CreateInlinePolicy(policy *model.InlinePolicy) error {
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(policy).Error
}

// CreateTrustedUser records a trust edge.
func (s *GormStore) CreateTrustedUser(trusted *model.TrustedUser) error {
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(trusted).Error
}

// ListAttachedPolicies returns the managed policy rows for a role.
func (s *GormStore) ListAttachedPolicies(roleID int) ([]model.AttachedPolicy, error) {
	var policies []model.AttachedPolicy
	if err := s.db.Where("role_id = ?", roleID).Order("name").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to list attached policies for role %d: %w", roleID, err)
	}
	return policies, nil
}

// ListInlinePolicies returns the inline policy rows for a role.
func (s *GormStore) ListInlinePolicies(roleID int) ([]model.InlinePolicy, error) {
	var policies []model.InlinePolicy
	if err := s.db.Where("role_id = ?", roleID).Order("name").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to list inline policies for role %d: %w", roleID, err)
	}
	return policies, nil
}

// ListTrustedUsers returns the trust edges for a role.
func (s *GormStore) ListTrustedUsers(roleID int) ([]model.TrustedUser, error) {
	var trusted []model.TrustedUser
	if err := s.db.Where("role_id = ?", roleID).Order("id").Find(&trusted).Error; err != nil {
		return nil, fmt.Errorf("failed to list trusted users for role %d: %w", roleID, err)
	}
	return trusted, nil
}

// FindUser retrieves a mirrored user.
func (s *GormStore) FindUser(accountID, userName string) (*model.User, error) {
	var user model.User
	err := s.db.First(&user, "account_id = ? AND user_name = ?", accountID, userName).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user %s in account %s: %w", userName, accountID, err)
	}
	return &user, nil
}

// CreateUser creates a user row and populates user.ID.
func (s *GormStore) CreateUser(user *model.User) error {
	if err := s.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s in account %s: %w", user.UserName, user.AccountID, err)
	}
	return nil
}

// ListUsers returns all mirrored users for an account.
func (s *GormStore) ListUsers(accountID string) ([]model.User, error) {
	var users []model.User
	if err := s.db.Where("account_id = ?", accountID).Order("user_name").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users for account %s: %w", accountID, err)
	}
	return users, nil
}

// UpsertUserAttachedPolicy records a managed policy document for a user,
// overwriting the stored document when the row exists.
func (s *GormStore) UpsertUserAttachedPolicy(policy *model.UserAttachedPolicy) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"document"}),
	}).Create(policy).Error
}

// UpsertUserInlinePolicy records an inline policy document for a user,
// overwriting the stored document when the row exists.
func (s *GormStore) UpsertUserInlinePolicy(policy *model.UserInlinePolicy) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"document"}),
	}).Create(policy).Error
}

// ListUserAttachedPolicies returns the managed policy rows for a user.
func (s *GormStore) ListUserAttachedPolicies(userID int) ([]model.UserAttachedPolicy, error) {
	var policies []model.UserAttachedPolicy
	if err := s.db.Where("user_id = ?", userID).Order("name").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to list attached policies for user %d: %w", userID, err)
	}
	return policies, nil
}

// ListUserInlinePolicies returns the inline policy rows for a user.
func (s *GormStore) ListUserInlinePolicies(userID int) ([]model.UserInlinePolicy, error) {
	var policies []model.UserInlinePolicy
	if err := s.db.Where("user_id = ?", userID).Order("name").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to list inline policies for user %d: %w", userID, err)
	}
	return policies, nil
}
