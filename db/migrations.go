package db

import "embed"

// Migrations holds the archive schema, applied by the migrate subcommand.
//
//go:embed migrations/*.sql
var Migrations embed.FS
