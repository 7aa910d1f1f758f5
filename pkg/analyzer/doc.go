// Package analyzer implements per-account reconciliation of IAM state into
// the mirror database.
//
// For each watched account the analyzer assumes the account's cross-account
// role, fetches the configured roles with their trust policies and policy
// documents, lists all users with their policies, and writes the result into
// PostgreSQL inside a single transaction. Roles that were mirrored on a
// previous run but are no longer configured for analysis are removed along
// with their dependent rows.
//
// Write semantics differ by entity and are deliberate:
//
//   - Roles and their policies are created when absent and left untouched
//     when present, so a mirrored trust policy or permissions summary is a
//     snapshot from the role's first sync.
//   - User policy documents are refreshed on every sync.
//   - Trust edges (trusted_users rows) are only ever added.
//
// Usage:
//
//	store := analyzer.NewGormStore(gormDB)
//	a := analyzer.New(store, resolver)
//	reports, err := a.SyncAll(ctx)
package analyzer
