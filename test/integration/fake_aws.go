package integration

import (
	"context"
	"fmt"
	"sync"

	"iam-mirror/pkg/awsiam"
)

// FakeResolver stands in for STS during integration tests. Accounts are
// keyed by the cross-account role ARN a real resolver would assume;
// assuming an unknown ARN fails the same way a denied AssumeRole does.
type FakeResolver struct {
	mu       sync.Mutex
	accounts map[string]*FakeAccount
}

func NewFakeResolver() *FakeResolver {
	return &FakeResolver{accounts: make(map[string]*FakeAccount)}
}

// Account returns the fake upstream for a role ARN, creating it on first
// use.
func (r *FakeResolver) Account(roleArn string) *FakeAccount {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[roleArn]
	if !ok {
		account = newFakeAccount()
		r.accounts[roleArn] = account
	}
	return account
}

// Reset forgets all configured accounts
func (r *FakeResolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = make(map[string]*FakeAccount)
}

func (r *FakeResolver) AssumeRole(ctx context.Context, roleArn string) (awsiam.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[roleArn]
	if !ok {
		return nil, &awsiam.AuthError{RoleArn: roleArn, Err: fmt.Errorf("access denied")}
	}
	return account, nil
}

type fakeRole struct {
	arn         string
	trustPolicy []byte
	attached    []awsiam.PolicyRef
	inline      map[string][]byte
}

type fakeManaged struct {
	versionID string
	document  []byte
}

// FakeAccount is one account's worth of IAM state served to the analyzer
type FakeAccount struct {
	mu          sync.Mutex
	roles       map[string]*fakeRole
	managed     map[string]fakeManaged
	users       []awsiam.User
	userInline  map[string]map[string][]byte
	userManaged map[string][]awsiam.PolicyRef
}

func newFakeAccount() *FakeAccount {
	return &FakeAccount{
		roles:       make(map[string]*fakeRole),
		managed:     make(map[string]fakeManaged),
		userInline:  make(map[string]map[string][]byte),
		userManaged: make(map[string][]awsiam.PolicyRef),
	}
}

// AddRole registers a role with the given trust policy document
func (a *FakeAccount) AddRole(name, arn, trustPolicy string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.roles[name] = &fakeRole{
		arn:         arn,
		trustPolicy: []byte(trustPolicy),
		inline:      make(map[string][]byte),
	}
}

// RemoveRole deletes a role from the upstream
func (a *FakeAccount) RemoveRole(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.roles, name)
}

// AttachManagedPolicy attaches a managed policy to a role and registers
// its default version document.
func (a *FakeAccount) AttachManagedPolicy(roleName, policyName, policyArn, document string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	role := a.roles[roleName]
	role.attached = append(role.attached, awsiam.PolicyRef{Name: policyName, Arn: policyArn})
	a.managed[policyArn] = fakeManaged{versionID: "v1", document: []byte(document)}
}

// PutInlineRolePolicy sets an inline policy document on a role
func (a *FakeAccount) PutInlineRolePolicy(roleName, policyName, document string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.roles[roleName].inline[policyName] = []byte(document)
}

// AddUser registers a user
func (a *FakeAccount) AddUser(name, arn string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users = append(a.users, awsiam.User{Name: name, Arn: arn})
}

// PutInlineUserPolicy sets an inline policy document on a user
func (a *FakeAccount) PutInlineUserPolicy(userName, policyName, document string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.userInline[userName] == nil {
		a.userInline[userName] = make(map[string][]byte)
	}
	a.userInline[userName][policyName] = []byte(document)
}

func (a *FakeAccount) GetRole(ctx context.Context, roleName string) (*awsiam.Role, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	role, ok := a.roles[roleName]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleName, awsiam.ErrNotFound)
	}
	return &awsiam.Role{Name: roleName, Arn: role.arn, TrustPolicy: role.trustPolicy}, nil
}

func (a *FakeAccount) ListAttachedRolePolicies(ctx context.Context, roleName string) ([]awsiam.PolicyRef, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	role, ok := a.roles[roleName]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleName, awsiam.ErrNotFound)
	}
	return append([]awsiam.PolicyRef(nil), role.attached...), nil
}

func (a *FakeAccount) ListRolePolicyNames(ctx context.Context, roleName string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	role, ok := a.roles[roleName]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleName, awsiam.ErrNotFound)
	}
	names := make([]string, 0, len(role.inline))
	for name := range role.inline {
		names = append(names, name)
	}
	return names, nil
}

func (a *FakeAccount) GetRolePolicy(ctx context.Context, roleName, policyName string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	role, ok := a.roles[roleName]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleName, awsiam.ErrNotFound)
	}
	document, ok := role.inline[policyName]
	if !ok {
		return nil, fmt.Errorf("policy %s: %w", policyName, awsiam.ErrNotFound)
	}
	return document, nil
}

func (a *FakeAccount) GetPolicy(ctx context.Context, policyArn string) (*awsiam.ManagedPolicy, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	managed, ok := a.managed[policyArn]
	if !ok {
		return nil, fmt.Errorf("policy %s: %w", policyArn, awsiam.ErrNotFound)
	}
	return &awsiam.ManagedPolicy{Arn: policyArn, DefaultVersionID: managed.versionID}, nil
}

func (a *FakeAccount) GetPolicyVersion(ctx context.Context, policyArn, versionID string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	managed, ok := a.managed[policyArn]
	if !ok || managed.versionID != versionID {
		return nil, fmt.Errorf("policy version %s/%s: %w", policyArn, versionID, awsiam.ErrNotFound)
	}
	return managed.document, nil
}

func (a *FakeAccount) ListUsers(ctx context.Context) ([]awsiam.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]awsiam.User(nil), a.users...), nil
}

func (a *FakeAccount) ListAttachedUserPolicies(ctx context.Context, userName string) ([]awsiam.PolicyRef, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]awsiam.PolicyRef(nil), a.userManaged[userName]...), nil
}

func (a *FakeAccount) ListUserPolicyNames(ctx context.Context, userName string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, 0, len(a.userInline[userName]))
	for name := range a.userInline[userName] {
		names = append(names, name)
	}
	return names, nil
}

func (a *FakeAccount) GetUserPolicy(ctx context.Context, userName, policyName string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	document, ok := a.userInline[userName][policyName]
	if !ok {
		return nil, fmt.Errorf("policy %s: %w", policyName, awsiam.ErrNotFound)
	}
	return document, nil
}

var _ awsiam.Resolver = (*FakeResolver)(nil)
var _ awsiam.Client = (*FakeAccount)(nil)
