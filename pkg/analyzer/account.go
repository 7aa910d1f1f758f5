package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"iam-mirror/pkg/awsiam"
	"iam-mirror/pkg/model"
)

// syncAccount mirrors one account. All writes happen inside a single
// transaction, so a partially failed sync leaves the mirror unchanged.
func (a *Analyzer) syncAccount(ctx context.Context, account *model.Account) error {
	client, err := a.resolver.AssumeRole(ctx, account.RoleArn)
	if err != nil {
		return err
	}

	accountID, err := awsiam.AccountNumber(account.RoleArn)
	if err != nil {
		return fmt.Errorf("failed to extract account number from %s: %w", account.RoleArn, err)
	}

	return a.store.Transaction(func(tx Store) error {
		store := newLockedStore(tx)

		if err := store.EnsureAccount(accountID, account.AccountName, account.RoleArn); err != nil {
			return err
		}

		persisted, err := store.PersistedRoleNames(accountID)
		if err != nil {
			return err
		}
		stale := staleRoles(persisted, account.RolesToAnalyze)

		fetcher := newDocFetcher(client)

		if err := a.syncRoles(ctx, store, client, fetcher, accountID, account.RolesToAnalyze); err != nil {
			return err
		}

		for _, roleName := range stale {
			if err := store.DeleteRole(accountID, roleName); err != nil {
				return err
			}
		}

		return a.syncUsers(ctx, store, client, fetcher, accountID)
	})
}

// syncRoles reconciles the configured roles concurrently. Errors from all
// roles are collected rather than cancelling the siblings, so one bad role
// reports alongside the others instead of masking them.
func (a *Analyzer) syncRoles(ctx context.Context, store Store, client awsiam.Client, fetcher *docFetcher, accountID string, roleNames []string) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, roleName := range roleNames {
		wg.Add(1)
		go func(roleName string) {
			defer wg.Done()
			reconciler := &roleReconciler{
				store:     store,
				client:    client,
				fetcher:   fetcher,
				accountID: accountID,
			}
			if err := reconciler.reconcile(ctx, roleName); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("role %s: %w", roleName, err))
				mu.Unlock()
			}
		}(roleName)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// syncUsers reconciles every user in the account concurrently.
func (a *Analyzer) syncUsers(ctx context.Context, store Store, client awsiam.Client, fetcher *docFetcher, accountID string) error {
	users, err := client.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, user := range users {
		wg.Add(1)
		go func(user awsiam.User) {
			defer wg.Done()
			reconciler := &userReconciler{
				store:     store,
				client:    client,
				fetcher:   fetcher,
				accountID: accountID,
			}
			if err := reconciler.reconcile(ctx, user); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("user %s: %w", user.Name, err))
				mu.Unlock()
			}
		}(user)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// staleRoles returns the persisted role names that are no longer
// configured, in their persisted order.
func staleRoles(persisted, configured []string) []string {
	wanted := make(map[string]struct{}, len(configured))
	for _, name := range configured {
		wanted[name] = struct{}{}
	}

	var stale []string
	for _, name := range persisted {
		if _, ok := wanted[name]; !ok {
			stale = append(stale, name)
		}
	}
	return stale
}
