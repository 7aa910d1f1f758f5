// iamctl is the command-line entrypoint for the IAM mirror. It runs the
// API server, drives account synchronisation, manages the database
// schema, and administers the set of watched accounts.
package main
