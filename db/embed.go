// Package db embeds the goose migrations, one directory per SQL dialect.
package db

import "embed"

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var Migrations embed.FS

// MigrationDir returns the directory inside Migrations for a database driver.
func MigrationDir(driver string) string {
	return "migrations/" + driver
}
