// Package migrations embeds the versioned postgres schema
package migrations

import "embed"

// FS holds the NNNNNN_name.{up,down}.sql pairs
//
//go:embed *.sql
var FS embed.FS
