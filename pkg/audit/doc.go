// Package audit provides audit logging for mirror operations.
//
// This package implements structured audit logging for security-relevant
// operations such as account syncs, role removal and account
// registration changes.
//
// # Event Types
//
// The package defines event types for various operations:
//
//   - Account sync events (success/failure)
//   - Role removal events
//   - Account registration and deregistration events
//
// # Usage
//
//	logger := audit.NewLogger()
//	logger.Log(audit.AccountSyncEvent{AccountID: "111111111111", Success: true})
//
// Audit events are logged in RFC5424 syslog format suitable for security
// monitoring and compliance requirements. Events can additionally be
// persisted to a database via Store when AUDIT_DATABASE_URL is set.
package audit
