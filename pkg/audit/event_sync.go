package audit

import (
	"fmt"
	"time"
)

// AccountSyncEvent represents the outcome of syncing one account
type AccountSyncEvent struct {
	AccountID    string
	AccountName  string
	Success      bool
	ErrorMessage string
	Duration     time.Duration
}

func (e AccountSyncEvent) MessageID() string {
	return "sync"
}

func (e AccountSyncEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("account %s (%s) synced successfully", e.AccountID, e.AccountName)
	}
	msg := fmt.Sprintf("account %s (%s) failed to sync", e.AccountID, e.AccountName)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AccountSyncEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AccountSyncEvent) Facility() int {
	return FacilityDaemon
}

func (e AccountSyncEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSync: {
			"account":  e.AccountID,
			"duration": e.Duration.String(),
		},
	}
	if !e.Success {
		sd[SDIDSync]["error"] = e.ErrorMessage
	}
	return sd
}
