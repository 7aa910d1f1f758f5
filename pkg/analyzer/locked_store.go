package analyzer

import (
	"sync"

	"iam-mirror/pkg/model"
)

// Ensure lockedStore implements Store
var _ Store = (*lockedStore)(nil)

// lockedStore serializes access to an underlying Store. The per-account sync
// fans out role and user work across goroutines, but all of their writes go
// through one database transaction, which is not safe for concurrent use.
type lockedStore struct {
	mu    sync.Mutex
	inner Store
}

func newLockedStore(inner Store) *lockedStore {
	return &lockedStore{inner: inner}
}

func (s *lockedStore) Transaction(fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Transaction(fn)
}

func (s *lockedStore) GetAccount(id string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.GetAccount(id)
}

func (s *lockedStore) ListAccounts() ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListAccounts()
}

func (s *lockedStore) UpsertAccount(account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.UpsertAccount(account)
}

func (s *lockedStore) EnsureAccount(id, accountName, roleArn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.EnsureAccount(id, accountName, roleArn)
}

func (s *lockedStore) DeleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.DeleteAccount(id)
}

func (s *lockedStore) PersistedRoleNames(accountID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.PersistedRoleNames(accountID)
}

func (s *lockedStore) FindRole(accountID, roleName string) (*model.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.FindRole(accountID, roleName)
}

func (s *lockedStore) CreateRole(role *model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.CreateRole(role)
}

func (s *lockedStore) ListRoles(accountID string) ([]model.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListRoles(accountID)
}

func (s *lockedStore) DeleteRole(accountID, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.DeleteRole(accountID, roleName)
}

func (s *lockedStore) CreateAttachedPolicy(policy *model.AttachedPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.CreateAttachedPolicy(policy)
}

func (s *lockedStore) CreateInlinePolicy(policy *model.InlinePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.CreateInlinePolicy(policy)
}

func (s *lockedStore) CreateTrustedUser(trusted *model.TrustedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.CreateTrustedUser(trusted)
}

func (s *lockedStore) ListAttachedPolicies(roleID int) ([]model.AttachedPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListAttachedPolicies(roleID)
}

func (s *lockedStore) ListInlinePolicies(roleID int) ([]model.InlinePolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListInlinePolicies(roleID)
}

func (s *lockedStore) ListTrustedUsers(roleID int) ([]model.TrustedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListTrustedUsers(roleID)
}

func (s *lockedStore) FindUser(accountID, userName string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.FindUser(accountID, userName)
}

func (s *lockedStore) CreateUser(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.CreateUser(user)
}

func (s *lockedStore) ListUsers(accountID string) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListUsers(accountID)
}

func (s *lockedStore) UpsertUserAttachedPolicy(policy *model.UserAttachedPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.UpsertUserAttachedPolicy(policy)
}

func (s *lockedStore) UpsertUserInlinePolicy(policy *model.UserInlinePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.UpsertUserInlinePolicy(policy)
}

func (s *lockedStore) ListUserAttachedPolicies(userID int) ([]model.UserAttachedPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListUserAttachedPolicies(userID)
}

func (s *lockedStore) ListUserInlinePolicies(userID int) ([]model.UserInlinePolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListUserInlinePolicies(userID)
}
