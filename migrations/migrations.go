// Package migrations содержит встроенные SQL-миграции схемы.
// Применяются при старте через goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
