package analyzer

import "iam-mirror/pkg/model"

// Store abstracts the mirror database operations used by the analyzer and
// the account administration commands. This allows the reconcilers to run
// against an in-memory store in tests.
type Store interface {
	// Transaction wraps operations in a database transaction.
	// The provided function receives a transactional Store.
	// If the function returns an error, the transaction is rolled back.
	Transaction(fn func(Store) error) error

	// GetAccount retrieves a watched account by its 12-digit account ID.
	// Returns (nil, nil) when the account is not registered.
	GetAccount(id string) (*model.Account, error)

	// ListAccounts returns all watched accounts.
	ListAccounts() ([]model.Account, error)

	// UpsertAccount creates or fully replaces a watched account record.
	UpsertAccount(account *model.Account) error

	// EnsureAccount creates the account row if absent and refreshes its
	// display name if present. The configured role list is not touched.
	EnsureAccount(id, accountName, roleArn string) error

	// DeleteAccount removes an account and, via cascade, all of its
	// mirrored state.
	DeleteAccount(id string) error

	// PersistedRoleNames returns the names of all roles currently mirrored
	// for an account.
	PersistedRoleNames(accountID string) ([]string, error)

	// FindRole retrieves a mirrored role. Returns (nil, nil) when absent.
	FindRole(accountID, roleName string) (*model.Role, error)

	// CreateRole creates a role row and populates role.ID.
	CreateRole(role *model.Role) error

	// ListRoles returns all mirrored roles for an account.
	ListRoles(accountID string) ([]model.Role, error)

	// DeleteRole removes a mirrored role and its attached policies, inline
	// policies and trust edges. Removing an absent role is not an error.
	DeleteRole(accountID, roleName string) error

	// CreateAttachedPolicy records a managed policy document for a role.
	// An existing row with the same (role_id, name) is left untouched.
	CreateAttachedPolicy(policy *model.AttachedPolicy) error

	// CreateInlinePolicy records an inline policy document for a role.
	// An existing row with the same (role_id, name) is left untouched.
	CreateInlinePolicy(policy *model.InlinePolicy) error

	// CreateTrustedUser records a trust edge. Trust edges are additive;
	// an existing edge is left untouched and edges are never removed here.
	CreateTrustedUser(trusted *model.TrustedUser) error

	// ListAttachedPolicies returns the managed policy rows for a role.
	ListAttachedPolicies(roleID int) ([]model.AttachedPolicy, error)

	// ListInlinePolicies returns the inline policy rows for a role.
	ListInlinePolicies(roleID int) ([]model.InlinePolicy, error)

	// ListTrustedUsers returns the trust edges for a role.
	ListTrustedUsers(roleID int) ([]model.TrustedUser, error)

	// FindUser retrieves a mirrored user. Returns (nil, nil) when absent.
	FindUser(accountID, userName string) (*model.User, error)

	// CreateUser creates a user row and populates user.ID.
	CreateUser(user *model.User) error

	// ListUsers returns all mirrored users for an account.
	ListUsers(accountID string) ([]model.User, error)

	// UpsertUserAttachedPolicy records a managed policy document for a
	// user, overwriting the stored document when the row exists.
	UpsertUserAttachedPolicy(policy *model.UserAttachedPolicy) error

	// UpsertUserInlinePolicy records an inline policy document for a user,
	// overwriting the stored document when the row exists.
	UpsertUserInlinePolicy(policy *model.UserInlinePolicy) error

	// ListUserAttachedPolicies returns the managed policy rows for a user.
	ListUserAttachedPolicies(userID int) ([]model.UserAttachedPolicy, error)

	// ListUserInlinePolicies returns the inline policy rows for a user.
	ListUserInlinePolicies(userID int) ([]model.UserInlinePolicy, error)
}
