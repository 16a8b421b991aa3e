// Package migrations embeds the local scouting database schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
