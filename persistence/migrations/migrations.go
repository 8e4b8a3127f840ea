// SPDX-License-Identifier: GPL-3.0-or-later
package migrations

import (
	"embed"

	"github.com/rubenv/sql-migrate"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Source returns the migrations for a sql-migrate dialect ("sqlite3" or "postgres").
func Source(dialect string) migrate.MigrationSource {
	root := "sqlite"
	if dialect == "postgres" {
		root = "postgres"
	}

	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: files,
		Root:       root,
	}
}
