package iampolicy

import (
	"encoding/json"
	"fmt"
)

// Document is a parsed IAM policy document (identity policy or trust policy).
type Document struct {
	Version   string        `json:"Version,omitempty"`
	ID        string        `json:"Id,omitempty"`
	Statement StatementList `json:"Statement,omitempty"`
}

// Statement is one entry in a document's Statement field. Fields not needed
// for summarization are preserved as raw JSON.
type Statement struct {
	Sid       string          `json:"Sid,omitempty"`
	Effect    string          `json:"Effect,omitempty"`
	Action    StringList      `json:"Action,omitempty"`
	NotAction StringList      `json:"NotAction,omitempty"`
	Resource  StringList      `json:"Resource,omitempty"`
	Principal *Principal      `json:"Principal,omitempty"`
	Condition json.RawMessage `json:"Condition,omitempty"`
}

// Principal holds the principal map of a trust policy statement. A bare "*"
// principal parses to an empty Principal.
type Principal struct {
	AWS       StringList `json:"AWS,omitempty"`
	Service   StringList `json:"Service,omitempty"`
	Federated StringList `json:"Federated,omitempty"`
}

func (p *Principal) UnmarshalJSON(data []byte) error {
	// Principal may be the literal string "*" instead of a map
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Principal{}
		return nil
	}

	type principal Principal
	var v principal
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Principal(v)
	return nil
}

// StatementList accepts both a single statement object and a list.
type StatementList []Statement

func (l *StatementList) UnmarshalJSON(data []byte) error {
	var list []Statement
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single Statement
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("statement is neither an object nor a list: %w", err)
	}
	*l = StatementList{single}
	return nil
}

// StringList accepts both a single string and a list of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = StringList{s}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("value is neither a string nor a list of strings: %w", err)
	}
	*l = list
	return nil
}

// Parse decodes a policy document. The input bytes remain the canonical
// serialized form; Parse is for analysis only.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse policy document: %w", err)
	}
	return &doc, nil
}
