// Package db holds the embedded SQL migrations for the mirror schema.
package db

import "embed"

// Migrations contains the SQL migration files applied by "iamctl db migrate".
//
//go:embed migrations
var Migrations embed.FS
