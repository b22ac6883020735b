// Package migrations embeds the goose SQL migrations of the client databases.
//
// The main database schema lives at the package root; the session store has
// its own schema under session/.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

//go:embed session/*.sql
var SessionMigrations embed.FS
