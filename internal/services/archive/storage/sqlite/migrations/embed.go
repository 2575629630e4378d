package migrations

import "embed"

// FS contains embedded SQLite migrations for archive storage.
//
//go:embed *.sql
var FS embed.FS
