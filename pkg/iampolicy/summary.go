package iampolicy

import (
	"encoding/json"
	"sort"
)

// Summary accumulates actions by effect across one or more policy documents.
// It is a set per effect, so folding the same document twice is a no-op.
type Summary map[string]map[string]struct{}

// NewSummary returns an empty accumulator.
func NewSummary() Summary {
	return make(Summary)
}

// Add folds a document's statements into the accumulator. Statements with no
// actions contribute nothing; a missing Effect defaults to "Allow".
func (s Summary) Add(doc *Document) {
	for _, stmt := range doc.Statement {
		effect := stmt.Effect
		if effect == "" {
			effect = "Allow"
		}
		for _, action := range stmt.Action {
			bucket, ok := s[effect]
			if !ok {
				bucket = make(map[string]struct{})
				s[effect] = bucket
			}
			bucket[action] = struct{}{}
		}
	}
}

// Actions returns the sorted action list for an effect.
func (s Summary) Actions(effect string) []string {
	bucket := s[effect]
	actions := make([]string, 0, len(bucket))
	for action := range bucket {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

// MarshalJSON serializes the summary as effect -> sorted action list, e.g.
// {"Allow":["iam:GetRole"],"Deny":["*"]}.
func (s Summary) MarshalJSON() ([]byte, error) {
	out := make(map[string][]string, len(s))
	for effect := range s {
		out[effect] = s.Actions(effect)
	}
	return json.Marshal(out)
}

// Serialize returns the stored text form of the summary.
func (s Summary) Serialize() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
