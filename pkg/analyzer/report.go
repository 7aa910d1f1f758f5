package analyzer

//go:generate go run github.com/dmarkham/enumer -type SyncStatus -trimprefix Sync -transform snake -json -output syncstatus.gen.go

import "time"

// SyncStatus describes the outcome of syncing one account.
type SyncStatus int

const (
	SyncSucceeded SyncStatus = iota
	SyncAuthFailed
	SyncFailed
)

// AccountReport summarizes the sync of one account.
type AccountReport struct {
	AccountID   string        `json:"account_id"`
	AccountName string        `json:"account_name"`
	Status      SyncStatus    `json:"status"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
}
