package audit

import "fmt"

// AccountChangeEvent represents registration or deregistration of a
// watched account
type AccountChangeEvent struct {
	AccountID   string
	AccountName string
	Deleted     bool
}

func (e AccountChangeEvent) MessageID() string {
	return "account"
}

func (e AccountChangeEvent) Message() string {
	if e.Deleted {
		return fmt.Sprintf("account %s (%s) deregistered", e.AccountID, e.AccountName)
	}
	return fmt.Sprintf("account %s (%s) registered", e.AccountID, e.AccountName)
}

func (e AccountChangeEvent) Severity() Severity {
	return SeverityNotice
}

func (e AccountChangeEvent) Facility() int {
	return FacilityAuth
}

func (e AccountChangeEvent) StructuredData() map[string]map[string]string {
	action := "register"
	if e.Deleted {
		action = "deregister"
	}
	return map[string]map[string]string{
		SDIDSubject: {
			"account": e.AccountID,
		},
		SDIDAction: {
			"operation": action,
		},
	}
}
