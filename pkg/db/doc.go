// Package db provides database connection utilities.
//
// Connections are GORM over the postgres driver. The connection string is
// taken from the DATABASE_URL environment variable unless provided
// explicitly. Query logging is silent unless IAM_MIRROR_LOG_LEVEL=debug.
package db
