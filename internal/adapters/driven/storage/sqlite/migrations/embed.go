// Package migrations holds the corpus schema for the SQLite store.
// Files are applied in name order; NNN_name.up.sql creates, .down.sql reverts.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
