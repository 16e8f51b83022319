// Package migrations embeds the schema and seed SQL so the migrator and
// tests can apply them without a checkout of this directory on disk.
package migrations

import "embed"

// Base holds the schema migrations plus reference data (asset types and
// their treasury accounts). Always applied.
//
//go:embed *.sql
var Base embed.FS

// SeedDev holds demo wallets for local development. Applied only when
// APP_ENV is development, tracked in its own seed_migrations table so its
// version sequence is independent of the schema's.
//
//go:embed seed_dev/*.sql
var SeedDev embed.FS
