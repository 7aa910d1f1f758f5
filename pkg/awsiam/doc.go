// Package awsiam abstracts the AWS identity API used by the analyzer.
//
// A Resolver assumes the per-account cross-account role and returns a Client
// scoped to that account's delegated credentials. The Client interface
// carries exactly the read operations the analyzer needs, so tests can
// substitute an in-memory fake without touching the AWS SDK.
package awsiam
