// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains the SQL migration files of every driver, under migrations/<driver>.
//
//go:embed migrations/*/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations holding the files for driver.
func MigrationsDir(driver string) string {
	return "migrations/" + driver
}
