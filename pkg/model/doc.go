// Package model defines the database models for the IAM mirror.
//
// This package contains GORM models that map to the mirror's PostgreSQL
// schema. The schema mirrors the IAM configuration of the watched AWS
// accounts; it is written by the analyzer and read by the browse API.
//
// # Core Models
//
//   - Account: a watched AWS account with its cross-account role ARN
//   - Role: an analyzed IAM role with trust policy and permissions summary
//   - AttachedPolicy / InlinePolicy: policy documents attached to a role
//   - User: an IAM user in a watched account
//   - UserAttachedPolicy / UserInlinePolicy: policy documents for a user
//   - TrustedUser: a principal trusted by a role's trust policy
//
// # Database Schema
//
// The database uses PostgreSQL with the following tables:
//
//   - accounts: watched accounts keyed by AWS account number
//   - roles: analyzed roles, unique per (account_id, role_name)
//   - attached_policies, inline_policies: role policy documents
//   - users: IAM users, unique per (account_id, user_name)
//   - user_attached_policies, user_inline_policies: user policy documents
//   - trusted_users: trust edges, unique per (user_arn, account_id, role_id)
//
// Policy documents and permission summaries are stored as serialized JSON
// text and re-parsed on read.
package model
