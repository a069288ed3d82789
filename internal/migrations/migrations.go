// Package migrations embeds the goose SQL migrations applied by cmd/migrate
// and the repomanager.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
