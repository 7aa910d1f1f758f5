package awsiam

import "context"

// Role is the subset of role metadata the analyzer consumes. TrustPolicy is
// the decoded JSON trust policy document.
type Role struct {
	Name        string
	Arn         string
	TrustPolicy []byte
}

// PolicyRef identifies a managed policy attached to a role or user.
type PolicyRef struct {
	Name string
	Arn  string
}

// ManagedPolicy is the metadata needed to resolve a policy's document.
type ManagedPolicy struct {
	Arn              string
	DefaultVersionID string
}

// User is the subset of user metadata the analyzer consumes.
type User struct {
	Name string
	Arn  string
}

// Client is an identity API handle scoped to one account's delegated
// credentials. All document-returning calls yield decoded JSON bytes.
type Client interface {
	GetRole(ctx context.Context, roleName string) (*Role, error)
	ListAttachedRolePolicies(ctx context.Context, roleName string) ([]PolicyRef, error)
	ListRolePolicyNames(ctx context.Context, roleName string) ([]string, error)
	GetRolePolicy(ctx context.Context, roleName, policyName string) ([]byte, error)
	GetPolicy(ctx context.Context, policyArn string) (*ManagedPolicy, error)
	GetPolicyVersion(ctx context.Context, policyArn, versionID string) ([]byte, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListAttachedUserPolicies(ctx context.Context, userName string) ([]PolicyRef, error)
	ListUserPolicyNames(ctx context.Context, userName string) ([]string, error)
	GetUserPolicy(ctx context.Context, userName, policyName string) ([]byte, error)
}

// Resolver resolves delegated access for an account. The returned Client
// must not be reused across accounts.
type Resolver interface {
	AssumeRole(ctx context.Context, roleArn string) (Client, error)
}
