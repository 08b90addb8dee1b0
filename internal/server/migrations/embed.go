// Package migrations embeds the goose migrations for both storage dialects.
// PostgreSQL files live under postgres/, SQLite files under sqlite/.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Directory names inside Migrations.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
