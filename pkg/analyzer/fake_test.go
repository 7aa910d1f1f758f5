package analyzer

import (
	"context"
	"fmt"
	"sync"

	"iam-mirror/pkg/awsiam"
	"iam-mirror/pkg/model"
)

// fakeStore is an in-memory Store for reconciler tests.
type fakeStore struct {
	mu sync.Mutex

	accounts     map[string]model.Account
	roles        []*model.Role
	attached     []*model.AttachedPolicy
	inline       []*model.InlinePolicy
	trusted      []*model.TrustedUser
	users        []*model.User
	userAttached []*model.UserAttachedPolicy
	userInline   []*model.UserInlinePolicy

	nextID int
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[string]model.Account)}
}

func (s *fakeStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) Transaction(fn func(Store) error) error {
	return fn(s)
}

func (s *fakeStore) GetAccount(id string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (s *fakeStore) ListAccounts() ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var accounts []model.Account
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (s *fakeStore) UpsertAccount(account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = *account
	return nil
}

func (s *fakeStore) EnsureAccount(id, accountName, roleArn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.accounts[id]; ok {
		existing.AccountName = accountName
		s.accounts[id] = existing
		return nil
	}
	s.accounts[id] = model.Account{
		ID:             id,
		AccountName:    accountName,
		RoleArn:        roleArn,
		RolesToAnalyze: model.RoleList{},
	}
	return nil
}

func (s *fakeStore) DeleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

func (s *fakeStore) PersistedRoleNames(accountID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, role := range s.roles {
		if role.AccountID == accountID {
			names = append(names, role.RoleName)
		}
	}
	return names, nil
}

func (s *fakeStore) FindRole(accountID, roleName string) (*model.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findRole(accountID, roleName), nil
}

func (s *fakeStore) findRole(accountID, roleName string) *model.Role {
	for _, role := range s.roles {
		if role.AccountID == accountID && role.RoleName == roleName {
			copied := *role
			return &copied
		}
	}
	return nil
}

func (s *fakeStore) CreateRole(role *model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findRole(role.AccountID, role.RoleName) != nil {
		return fmt.Errorf("duplicate role %s", role.RoleName)
	}
	role.ID = s.id()
	copied := *role
	s.roles = append(s.roles, &copied)
	return nil
}

func (s *fakeStore) ListRoles(accountID string) ([]model.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var roles []model.Role
	for _, role := range s.roles {
		if role.AccountID == accountID {
			roles = append(roles, *role)
		}
	}
	return roles, nil
}

func (s *fakeStore) DeleteRole(accountID, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	role := s.findRole(accountID, roleName)
	if role == nil {
		return nil
	}

	var attached []*model.AttachedPolicy
	for _, policy := range s.attached {
		if policy.RoleID != role.ID {
			attached = append(attached, policy)
		}
	}
	s.attached = attached

	var inline []*model.InlinePolicy
	for _, policy := range s.inline {
		if policy.RoleID != role.ID {
			inline = append(inline, policy)
		}
	}
	s.inline = inline

	var trusted []*model.TrustedUser
	for _, edge := range s.trusted {
		if edge.RoleID != role.ID {
			trusted = append(trusted, edge)
		}
	}
	s.trusted = trusted

	var roles []*model.Role
	for _, existing := range s.roles {
		if existing.ID != role.ID {
			roles = append(roles, existing)
		}
	}
	s.roles = roles
	return nil
}

func (s *fakeStore) CreateAttachedPolicy(policy *model.AttachedPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.attached {
		if existing.RoleID == policy.RoleID && existing.Name == policy.Name {
			return nil
		}
	}
	policy.ID = s.id()
	copied := *policy
	s.attached = append(s.attached, &copied)
	return nil
}

func (s *fakeStore) CreateInlinePolicy(policy *model.InlinePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.inline {
		if existing.RoleID == policy.RoleID && existing.Name == policy.Name {
			return nil
		}
	}
	policy.ID = s.id()
	copied := *policy
	s.inline = append(s.inline, &copied)
	return nil
}

func (s *fakeStore) CreateTrustedUser(trusted *model.TrustedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.trusted {
		if existing.RoleID == trusted.RoleID && existing.AccountID == trusted.AccountID && existing.UserArn == trusted.UserArn {
			return nil
		}
	}
	trusted.ID = s.id()
	copied := *trusted
	s.trusted = append(s.trusted, &copied)
	return nil
}

func (s *fakeStore) ListAttachedPolicies(roleID int) ([]model.AttachedPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var policies []model.AttachedPolicy
	for _, policy := range s.attached {
		if policy.RoleID == roleID {
			policies = append(policies, *policy)
		}
	}
	return policies, nil
}

func (s *fakeStore) ListInlinePolicies(roleID int) ([]model.InlinePolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var policies []model.InlinePolicy
	for _, policy := range s.inline {
		if policy.RoleID == roleID {
			policies = append(policies, *policy)
		}
	}
	return policies, nil
}

func (s *fakeStore) ListTrustedUsers(roleID int) ([]model.TrustedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var trusted []model.TrustedUser
	for _, edge := range s.trusted {
		if edge.RoleID == roleID {
			trusted = append(trusted, *edge)
		}
	}
	return trusted, nil
}

func (s *fakeStore) FindUser(accountID, userName string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.AccountID == accountID && user.UserName == userName {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateUser(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.id()
	copied := *user
	s.users = append(s.users, &copied)
	return nil
}

func (s *fakeStore) ListUsers(accountID string) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []model.User
	for _, user := range s.users {
		if user.AccountID == accountID {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (s *fakeStore) UpsertUserAttachedPolicy(policy *model.UserAttachedPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.userAttached {
		if existing.UserID == policy.UserID && existing.Name == policy.Name {
			existing.Document = policy.Document
			return nil
		}
	}
	policy.ID = s.id()
	copied := *policy
	s.userAttached = append(s.userAttached, &copied)
	return nil
}

func (s *fakeStore) UpsertUserInlinePolicy(policy *model.UserInlinePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.userInline {
		if existing.UserID == policy.UserID && existing.Name == policy.Name {
			existing.Document = policy.Document
			return nil
		}
	}
	policy.ID = s.id()
	copied := *policy
	s.userInline = append(s.userInline, &copied)
	return nil
}

func (s *fakeStore) ListUserAttachedPolicies(userID int) ([]model.UserAttachedPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var policies []model.UserAttachedPolicy
	for _, policy := range s.userAttached {
		if policy.UserID == userID {
			policies = append(policies, *policy)
		}
	}
	return policies, nil
}

func (s *fakeStore) ListUserInlinePolicies(userID int) ([]model.UserInlinePolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var policies []model.UserInlinePolicy
	for _, policy := range s.userInline {
		if policy.UserID == userID {
			policies = append(policies, *policy)
		}
	}
	return policies, nil
}

// fakeRole describes one upstream role for fakeClient.
type fakeRole struct {
	arn         string
	trustPolicy string
	attached    []awsiam.PolicyRef
	inline      map[string]string
}

// fakeManaged describes one upstream managed policy.
type fakeManaged struct {
	defaultVersion string
	versions       map[string]string
}

// fakeClient is an in-memory awsiam.Client.
type fakeClient struct {
	roles        map[string]fakeRole
	managed      map[string]fakeManaged
	users        []awsiam.User
	userAttached map[string][]awsiam.PolicyRef
	userInline   map[string]map[string]string
}

var _ awsiam.Client = (*fakeClient)(nil)

func (c *fakeClient) GetRole(ctx context.Context, roleName string) (*awsiam.Role, error) {
	role, ok := c.roles[roleName]
	if !ok {
		return nil, fmt.Errorf("%w: role %s", awsiam.ErrNotFound, roleName)
	}
	return &awsiam.Role{
		Name:        roleName,
		Arn:         role.arn,
		TrustPolicy: []byte(role.trustPolicy),
	}, nil
}

func (c *fakeClient) ListAttachedRolePolicies(ctx context.Context, roleName string) ([]awsiam.PolicyRef, error) {
	return c.roles[roleName].attached, nil
}

func (c *fakeClient) ListRolePolicyNames(ctx context.Context, roleName string) ([]string, error) {
	var names []string
	for name := range c.roles[roleName].inline {
		names = append(names, name)
	}
	return names, nil
}

func (c *fakeClient) GetRolePolicy(ctx context.Context, roleName, policyName string) ([]byte, error) {
	document, ok := c.roles[roleName].inline[policyName]
	if !ok {
		return nil, fmt.Errorf("%w: inline policy %s", awsiam.ErrNotFound, policyName)
	}
	return []byte(document), nil
}

func (c *fakeClient) GetPolicy(ctx context.Context, policyArn string) (*awsiam.ManagedPolicy, error) {
	policy, ok := c.managed[policyArn]
	if !ok {
		return nil, fmt.Errorf("%w: policy %s", awsiam.ErrNotFound, policyArn)
	}
	return &awsiam.ManagedPolicy{Arn: policyArn, DefaultVersionID: policy.defaultVersion}, nil
}

func (c *fakeClient) GetPolicyVersion(ctx context.Context, policyArn, versionID string) ([]byte, error) {
	policy, ok := c.managed[policyArn]
	if !ok {
		return nil, fmt.Errorf("%w: policy %s", awsiam.ErrNotFound, policyArn)
	}
	document, ok := policy.versions[versionID]
	if !ok {
		return nil, fmt.Errorf("%w: policy version %s", awsiam.ErrNotFound, versionID)
	}
	return []byte(document), nil
}

func (c *fakeClient) ListUsers(ctx context.Context) ([]awsiam.User, error) {
	return c.users, nil
}

func (c *fakeClient) ListAttachedUserPolicies(ctx context.Context, userName string) ([]awsiam.PolicyRef, error) {
	return c.userAttached[userName], nil
}

func (c *fakeClient) ListUserPolicyNames(ctx context.Context, userName string) ([]string, error) {
	var names []string
	for name := range c.userInline[userName] {
		names = append(names, name)
	}
	return names, nil
}

func (c *fakeClient) GetUserPolicy(ctx context.Context, userName, policyName string) ([]byte, error) {
	document, ok := c.userInline[userName][policyName]
	if !ok {
		return nil, fmt.Errorf("%w: inline policy %s", awsiam.ErrNotFound, policyName)
	}
	return []byte(document), nil
}

// fakeResolver maps role ARNs to clients. Unknown ARNs fail with AuthError.
type fakeResolver struct {
	clients map[string]*fakeClient
}

var _ awsiam.Resolver = (*fakeResolver)(nil)

func (r *fakeResolver) AssumeRole(ctx context.Context, roleArn string) (awsiam.Client, error) {
	client, ok := r.clients[roleArn]
	if !ok {
		return nil, &awsiam.AuthError{RoleArn: roleArn, Err: fmt.Errorf("access denied")}
	}
	return client, nil
}
