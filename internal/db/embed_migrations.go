package db

import "embed"

// MigrationFS embeds the SQL migrations (users, verification_codes, audit_logs).
// Applied by the migrate runner (cmd/migrate).
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
