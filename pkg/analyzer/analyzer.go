package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"iam-mirror/pkg/audit"
	"iam-mirror/pkg/awsiam"
	"iam-mirror/pkg/model"
)

// ErrAccountNotFound is returned when a sync is requested for an account ID
// that is not registered.
var ErrAccountNotFound = errors.New("account not found")

// Analyzer mirrors the IAM configuration of watched accounts into the
// store.
type Analyzer struct {
	store    Store
	resolver awsiam.Resolver
	audit    *audit.Logger
}

// New creates an Analyzer.
func New(store Store, resolver awsiam.Resolver) *Analyzer {
	return &Analyzer{store: store, resolver: resolver}
}

// SetAuditLogger enables audit logging of sync outcomes.
func (a *Analyzer) SetAuditLogger(logger *audit.Logger) {
	a.audit = logger
}

// SyncAll syncs every watched account in turn and returns one report per
// account. A failing account never aborts the run; its failure is captured
// in its report and the remaining accounts are still synced.
func (a *Analyzer) SyncAll(ctx context.Context) ([]AccountReport, error) {
	accounts, err := a.store.ListAccounts()
	if err != nil {
		return nil, err
	}

	reports := make([]AccountReport, 0, len(accounts))
	for i := range accounts {
		reports = append(reports, a.sync(ctx, &accounts[i]))
	}
	return reports, nil
}

// SyncAccount syncs a single account by its 12-digit account ID. Returns
// ErrAccountNotFound when the ID is not registered.
func (a *Analyzer) SyncAccount(ctx context.Context, accountID string) (AccountReport, error) {
	account, err := a.store.GetAccount(accountID)
	if err != nil {
		return AccountReport{}, err
	}
	if account == nil {
		return AccountReport{}, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return a.sync(ctx, account), nil
}

// RemoveRole removes a mirrored role and its dependent rows from an
// account.
func (a *Analyzer) RemoveRole(ctx context.Context, accountID, roleName string) error {
	account, err := a.store.GetAccount(accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}

	err = a.store.Transaction(func(tx Store) error {
		return tx.DeleteRole(accountID, roleName)
	})
	if err != nil {
		return err
	}

	if a.audit != nil {
		a.audit.Log(audit.RoleRemovedEvent{AccountID: accountID, RoleName: roleName})
	}
	log.Printf("Removed role %q and its associated data from account %s", roleName, accountID)
	return nil
}

func (a *Analyzer) sync(ctx context.Context, account *model.Account) AccountReport {
	start := time.Now()
	report := AccountReport{
		AccountID:   account.ID,
		AccountName: account.AccountName,
		Status:      SyncSucceeded,
	}

	err := a.syncAccount(ctx, account)
	report.Duration = time.Since(start)

	var authErr *awsiam.AuthError
	switch {
	case err == nil:
	case errors.As(err, &authErr):
		report.Status = SyncAuthFailed
		report.Error = err.Error()
		log.Printf("Error assuming role %s: %v", account.RoleArn, authErr.Err)
	default:
		report.Status = SyncFailed
		report.Error = err.Error()
		log.Printf("Failed to sync account %s: %v", account.ID, err)
	}

	if a.audit != nil {
		a.audit.Log(audit.AccountSyncEvent{
			AccountID:    account.ID,
			AccountName:  account.AccountName,
			Success:      err == nil,
			ErrorMessage: report.Error,
			Duration:     report.Duration,
		})
	}
	return report
}
