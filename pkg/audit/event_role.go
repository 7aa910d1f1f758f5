package audit

import "fmt"

// RoleRemovedEvent represents the removal of a mirrored role
type RoleRemovedEvent struct {
	AccountID string
	RoleName  string
}

func (e RoleRemovedEvent) MessageID() string {
	return "role-remove"
}

func (e RoleRemovedEvent) Message() string {
	return fmt.Sprintf("role %s removed from account %s", e.RoleName, e.AccountID)
}

func (e RoleRemovedEvent) Severity() Severity {
	return SeverityNotice
}

func (e RoleRemovedEvent) Facility() int {
	return FacilityDaemon
}

func (e RoleRemovedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"account": e.AccountID,
			"role":    e.RoleName,
		},
	}
}
