package audit

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := AccountSyncEvent{
		AccountID:   "111111111111",
		AccountName: "production",
		Success:     true,
		Duration:    2 * time.Second,
	}

	logger.Log(event)

	output := buf.String()

	// Check RFC5424 format components
	if !strings.HasPrefix(output, "<") {
		t.Error("Expected RFC5424 PRI prefix in output")
	}
	if !strings.Contains(output, "iam-mirror") {
		t.Error("Expected app name 'iam-mirror' in output")
	}
	if !strings.Contains(output, "sync") {
		t.Error("Expected message ID 'sync' in output")
	}
	if !strings.Contains(output, "111111111111") {
		t.Error("Expected account ID in output")
	}
	if !strings.Contains(output, "synced successfully") {
		t.Error("Expected success message in output")
	}
}

func TestAccountSyncEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     AccountSyncEvent
		wantMsg   string
		wantSev   Severity
		wantMsgID string
	}{
		{
			name: "successful sync",
			event: AccountSyncEvent{
				AccountID:   "111111111111",
				AccountName: "production",
				Success:     true,
			},
			wantMsg:   "synced successfully",
			wantSev:   SeverityInfo,
			wantMsgID: "sync",
		},
		{
			name: "failed sync",
			event: AccountSyncEvent{
				AccountID:    "333333333333",
				AccountName:  "sandbox",
				Success:      false,
				ErrorMessage: "failed to assume role",
			},
			wantMsg:   "failed to sync: failed to assume role",
			wantSev:   SeverityWarning,
			wantMsgID: "sync",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want substring %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %q, want %q", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestRoleRemovedEvent(t *testing.T) {
	event := RoleRemovedEvent{AccountID: "111111111111", RoleName: "Admin"}

	if event.MessageID() != "role-remove" {
		t.Errorf("MessageID() = %q, want %q", event.MessageID(), "role-remove")
	}
	if !strings.Contains(event.Message(), "role Admin removed from account 111111111111") {
		t.Errorf("unexpected message: %q", event.Message())
	}

	sd := event.StructuredData()
	if sd[SDIDSubject]["role"] != "Admin" {
		t.Errorf("expected role in structured data, got %v", sd)
	}
}

func TestStructuredDataEscaping(t *testing.T) {
	event := AccountSyncEvent{
		AccountID:    "111111111111",
		AccountName:  "production",
		Success:      false,
		ErrorMessage: `quote " and bracket ]`,
	}

	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	logger.Log(event)

	output := buf.String()
	if !strings.Contains(output, `\"`) {
		t.Error("Expected escaped quote in structured data")
	}
	if !strings.Contains(output, `\]`) {
		t.Error("Expected escaped bracket in structured data")
	}
}

func TestLoggerPersistsToStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	logger.SetStore(NewStoreWithDB(db))

	mock.ExpectExec(`INSERT INTO messages`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	logger.Log(RoleRemovedEvent{AccountID: "111111111111", RoleName: "Admin"})

	if buf.Len() == 0 {
		t.Error("Expected a syslog line to be written")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("event was not saved to the store: %v", err)
	}
}
