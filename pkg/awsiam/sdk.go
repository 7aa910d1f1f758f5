package awsiam

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// STSResolver resolves delegated access by assuming the account's
// cross-account role through STS.
type STSResolver struct {
	cfg         aws.Config
	sessionName string
}

// NewSTSResolver builds a resolver from the ambient AWS credential chain.
func NewSTSResolver(ctx context.Context, region, sessionName string) (*STSResolver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &STSResolver{cfg: cfg, sessionName: sessionName}, nil
}

// AssumeRole assumes roleArn and returns a Client backed by the delegated
// credentials. The assumption is performed eagerly so credential failures
// surface here rather than on the first API call.
func (r *STSResolver) AssumeRole(ctx context.Context, roleArn string) (Client, error) {
	provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(r.cfg), roleArn, func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = r.sessionName
	})

	if _, err := provider.Retrieve(ctx); err != nil {
		return nil, &AuthError{RoleArn: roleArn, Err: err}
	}

	cfg := r.cfg.Copy()
	cfg.Credentials = aws.NewCredentialsCache(provider)

	return &sdkClient{iam: iam.NewFromConfig(cfg)}, nil
}

var _ Resolver = (*STSResolver)(nil)

type sdkClient struct {
	iam *iam.Client
}

var _ Client = (*sdkClient)(nil)

func (c *sdkClient) GetRole(ctx context.Context, roleName string) (*Role, error) {
	out, err := c.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(roleName)})
	if err != nil {
		return nil, classify(err)
	}

	trustPolicy, err := decodeDocument(out.Role.AssumeRolePolicyDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to decode trust policy for role %s: %w", roleName, err)
	}

	return &Role{
		Name:        aws.ToString(out.Role.RoleName),
		Arn:         aws.ToString(out.Role.Arn),
		TrustPolicy: trustPolicy,
	}, nil
}

func (c *sdkClient) ListAttachedRolePolicies(ctx context.Context, roleName string) ([]PolicyRef, error) {
	var refs []PolicyRef
	paginator := iam.NewListAttachedRolePoliciesPaginator(c.iam, &iam.ListAttachedRolePoliciesInput{
		RoleName: aws.String(roleName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		for _, attached := range page.AttachedPolicies {
			refs = append(refs, PolicyRef{
				Name: aws.ToString(attached.PolicyName),
				Arn:  aws.ToString(attached.PolicyArn),
			})
		}
	}
	return refs, nil
}

func (c *sdkClient) ListRolePolicyNames(ctx context.Context, roleName string) ([]string, error) {
	var names []string
	paginator := iam.NewListRolePoliciesPaginator(c.iam, &iam.ListRolePoliciesInput{
		RoleName: aws.String(roleName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		names = append(names, page.PolicyNames...)
	}
	return names, nil
}

func (c *sdkClient) GetRolePolicy(ctx context.Context, roleName, policyName string) ([]byte, error) {
	out, err := c.iam.GetRolePolicy(ctx, &iam.GetRolePolicyInput{
		RoleName:   aws.String(roleName),
		PolicyName: aws.String(policyName),
	})
	if err != nil {
		return nil, classify(err)
	}
	return decodeDocument(out.PolicyDocument)
}

func (c *sdkClient) GetPolicy(ctx context.Context, policyArn string) (*ManagedPolicy, error) {
	out, err := c.iam.GetPolicy(ctx, &iam.GetPolicyInput{PolicyArn: aws.String(policyArn)})
	if err != nil {
		return nil, classify(err)
	}
	return &ManagedPolicy{
		Arn:              aws.ToString(out.Policy.Arn),
		DefaultVersionID: aws.ToString(out.Policy.DefaultVersionId),
	}, nil
}

func (c *sdkClient) GetPolicyVersion(ctx context.Context, policyArn, versionID string) ([]byte, error) {
	out, err := c.iam.GetPolicyVersion(ctx, &iam.GetPolicyVersionInput{
		PolicyArn: aws.String(policyArn),
		VersionId: aws.String(versionID),
	})
	if err != nil {
		return nil, classify(err)
	}
	return decodeDocument(out.PolicyVersion.Document)
}

func (c *sdkClient) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	paginator := iam.NewListUsersPaginator(c.iam, &iam.ListUsersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		for _, user := range page.Users {
			users = append(users, User{
				Name: aws.ToString(user.UserName),
				Arn:  aws.ToString(user.Arn),
			})
		}
	}
	return users, nil
}

func (c *sdkClient) ListAttachedUserPolicies(ctx context.Context, userName string) ([]PolicyRef, error) {
	var refs []PolicyRef
	paginator := iam.NewListAttachedUserPoliciesPaginator(c.iam, &iam.ListAttachedUserPoliciesInput{
		UserName: aws.String(userName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		for _, attached := range page.AttachedPolicies {
			refs = append(refs, PolicyRef{
				Name: aws.ToString(attached.PolicyName),
				Arn:  aws.ToString(attached.PolicyArn),
			})
		}
	}
	return refs, nil
}

func (c *sdkClient) ListUserPolicyNames(ctx context.Context, userName string) ([]string, error) {
	var names []string
	paginator := iam.NewListUserPoliciesPaginator(c.iam, &iam.ListUserPoliciesInput{
		UserName: aws.String(userName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		names = append(names, page.PolicyNames...)
	}
	return names, nil
}

func (c *sdkClient) GetUserPolicy(ctx context.Context, userName, policyName string) ([]byte, error) {
	out, err := c.iam.GetUserPolicy(ctx, &iam.GetUserPolicyInput{
		UserName:   aws.String(userName),
		PolicyName: aws.String(policyName),
	})
	if err != nil {
		return nil, classify(err)
	}
	return decodeDocument(out.PolicyDocument)
}

// decodeDocument URL-decodes a policy document as returned by the identity
// API.
func decodeDocument(document *string) ([]byte, error) {
	decoded, err := url.QueryUnescape(aws.ToString(document))
	if err != nil {
		return nil, err
	}
	return []byte(decoded), nil
}

func classify(err error) error {
	var noSuchEntity *iamtypes.NoSuchEntityException
	if errors.As(err, &noSuchEntity) {
		return fmt.Errorf("%w: %s", ErrNotFound, aws.ToString(noSuchEntity.Message))
	}

	// Untyped service errors still carry the NoSuchEntity code.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchEntity" {
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.ErrorMessage())
	}
	return err
}
