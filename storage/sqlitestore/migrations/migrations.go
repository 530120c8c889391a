// Package migrations embeds the sqlitestore schema migration files so they
// can be applied from the compiled binary.
package migrations

import "embed"

// Migrations holds the SQL migration files for the auth state store.
//
//go:embed *.sql
var Migrations embed.FS
