package analyzer

import (
	"context"
	"fmt"
	"log"

	"iam-mirror/pkg/awsiam"
	"iam-mirror/pkg/model"
)

// userReconciler mirrors one IAM user into the store. Unlike roles, user
// policy documents are refreshed on every sync.
type userReconciler struct {
	store     Store
	client    awsiam.Client
	fetcher   *docFetcher
	accountID string
}

func (r *userReconciler) reconcile(ctx context.Context, user awsiam.User) error {
	attached, err := r.client.ListAttachedUserPolicies(ctx, user.Name)
	if err != nil {
		return fmt.Errorf("failed to list attached policies for user %s: %w", user.Name, err)
	}
	inlineNames, err := r.client.ListUserPolicyNames(ctx, user.Name)
	if err != nil {
		return fmt.Errorf("failed to list inline policies for user %s: %w", user.Name, err)
	}

	record, err := r.store.FindUser(r.accountID, user.Name)
	if err != nil {
		return err
	}
	if record == nil {
		record = &model.User{
			UserName:  user.Name,
			AccountID: r.accountID,
		}
		if err := r.store.CreateUser(record); err != nil {
			return err
		}
	}

	for _, ref := range attached {
		document, err := r.fetcher.managedPolicyDocument(ctx, ref.Arn)
		if err != nil {
			log.Printf("Failed to fetch policy document for %s: %v", ref.Arn, err)
			continue
		}
		err = r.store.UpsertUserAttachedPolicy(&model.UserAttachedPolicy{
			Name:     ref.Name,
			Document: string(document),
			UserID:   record.ID,
		})
		if err != nil {
			return err
		}
	}

	for _, name := range inlineNames {
		document, err := r.client.GetUserPolicy(ctx, user.Name, name)
		if err != nil {
			return fmt.Errorf("failed to fetch inline policy %s for user %s: %w", name, user.Name, err)
		}
		err = r.store.UpsertUserInlinePolicy(&model.UserInlinePolicy{
			Name:     name,
			Document: string(document),
			UserID:   record.ID,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
