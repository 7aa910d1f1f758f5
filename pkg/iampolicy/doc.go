// Package iampolicy parses and summarizes AWS IAM policy documents.
//
// IAM policy JSON is schemaless in a few well known ways: the Statement
// field may be a single object or a list, and Action, Resource and
// Principal.AWS may each be a single string or a list of strings. The types
// here normalize those forms so callers can iterate uniformly.
//
// Documents are carried alongside their original serialized text; this
// package never re-serializes a fetched document for storage.
package iampolicy
