package main

import (
	"context"
	"os"

	"gorm.io/gorm"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/audit"
	"iam-mirror/pkg/awsiam"
	"iam-mirror/pkg/config"
	"iam-mirror/pkg/db"
)

// connectDB opens the mirror database from DATABASE_URL.
func connectDB() (*gorm.DB, error) {
	return db.Connect(db.Config{})
}

// buildAnalyzer wires a store to an STS-backed resolver using the
// configured region and session name.
func buildAnalyzer(ctx context.Context, store analyzer.Store) (*analyzer.Analyzer, error) {
	cfg := config.Get()

	resolver, err := awsiam.NewSTSResolver(ctx, cfg.AWSRegion, cfg.RoleSessionName)
	if err != nil {
		return nil, err
	}

	a := analyzer.New(store, resolver)
	if cfg.AuditEnabled {
		a.SetAuditLogger(audit.NewLogger())
	}
	return a, nil
}

func lookupEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
