// Package item embeds the goose migrations for the item schema.
package item

import "embed"

//go:embed *.sql
var FS embed.FS
