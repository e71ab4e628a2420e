package migration

import "embed"

const migrationsDir = "migrations"

// Schema migrations for offerings, subscriptions, meal configurations,
// audit logs and the event outbox. Forward-only.
//
//go:embed migrations/*.up.sql
var embeddedMigrations embed.FS
