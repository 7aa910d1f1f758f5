package analyzer

import (
	"context"
	"fmt"
	"log"

	"iam-mirror/pkg/awsiam"
	"iam-mirror/pkg/iampolicy"
	"iam-mirror/pkg/model"
)

// roleReconciler mirrors one configured role into the store.
type roleReconciler struct {
	store     Store
	client    awsiam.Client
	fetcher   *docFetcher
	accountID string
}

// reconcile fetches roleName from the account and records it. A role that
// no longer exists upstream is logged and skipped without error. A role
// already present in the mirror keeps its stored trust policy, permissions
// summary and policy documents from its first sync; only new policy names
// and new trust edges are added.
func (r *roleReconciler) reconcile(ctx context.Context, roleName string) error {
	upstream, err := r.client.GetRole(ctx, roleName)
	if awsiam.IsNotFound(err) {
		log.Printf("Role %q not found in account %s, skipping", roleName, r.accountID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch role %s: %w", roleName, err)
	}

	trustDoc, err := iampolicy.Parse(upstream.TrustPolicy)
	if err != nil {
		return fmt.Errorf("failed to parse trust policy for role %s: %w", roleName, err)
	}
	trustedEntities := iampolicy.TrustedPrincipals(trustDoc)

	attached, err := r.client.ListAttachedRolePolicies(ctx, roleName)
	if err != nil {
		return fmt.Errorf("failed to list attached policies for role %s: %w", roleName, err)
	}
	inlineNames, err := r.client.ListRolePolicyNames(ctx, roleName)
	if err != nil {
		return fmt.Errorf("failed to list inline policies for role %s: %w", roleName, err)
	}

	summary := iampolicy.NewSummary()

	// A managed policy whose document cannot be resolved is skipped; it
	// contributes neither to the summary nor to the stored policies.
	attachedDocuments := make(map[string][]byte, len(attached))
	for _, ref := range attached {
		document, err := r.fetcher.managedPolicyDocument(ctx, ref.Arn)
		if err != nil {
			log.Printf("Failed to fetch policy document for %s: %v", ref.Arn, err)
			continue
		}
		parsed, err := iampolicy.Parse(document)
		if err != nil {
			log.Printf("Failed to parse policy document for %s: %v", ref.Arn, err)
			continue
		}
		summary.Add(parsed)
		attachedDocuments[ref.Name] = document
	}

	inlineDocuments := make(map[string][]byte, len(inlineNames))
	for _, name := range inlineNames {
		document, err := r.client.GetRolePolicy(ctx, roleName, name)
		if err != nil {
			return fmt.Errorf("failed to fetch inline policy %s for role %s: %w", name, roleName, err)
		}
		parsed, err := iampolicy.Parse(document)
		if err != nil {
			return fmt.Errorf("failed to parse inline policy %s for role %s: %w", name, roleName, err)
		}
		summary.Add(parsed)
		inlineDocuments[name] = document
	}

	role, err := r.store.FindRole(r.accountID, roleName)
	if err != nil {
		return err
	}
	if role == nil {
		summaryText, err := summary.Serialize()
		if err != nil {
			return fmt.Errorf("failed to serialize permissions summary for role %s: %w", roleName, err)
		}
		role = &model.Role{
			RoleName:           roleName,
			TrustPolicy:        string(upstream.TrustPolicy),
			PermissionsSummary: summaryText,
			AccountID:          r.accountID,
		}
		if err := r.store.CreateRole(role); err != nil {
			return err
		}
	}

	for _, ref := range attached {
		document, ok := attachedDocuments[ref.Name]
		if !ok {
			continue
		}
		err := r.store.CreateAttachedPolicy(&model.AttachedPolicy{
			Name:     ref.Name,
			Document: string(document),
			RoleID:   role.ID,
		})
		if err != nil {
			return err
		}
	}

	for _, name := range inlineNames {
		err := r.store.CreateInlinePolicy(&model.InlinePolicy{
			Name:     name,
			Document: string(inlineDocuments[name]),
			RoleID:   role.ID,
		})
		if err != nil {
			return err
		}
	}

	for _, entity := range trustedEntities {
		err := r.store.CreateTrustedUser(&model.TrustedUser{
			UserArn:   entity,
			AccountID: r.accountID,
			RoleID:    role.ID,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
