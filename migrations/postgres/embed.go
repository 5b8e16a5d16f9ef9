// Package migrations embebe las migraciones goose de PostgreSQL.
package migrations

import "embed"

// FS contiene los archivos goose (Up/Down en el mismo archivo).
//
//go:embed sql/*.sql
var FS embed.FS

// Dir es el directorio dentro de FS donde viven las migraciones.
const Dir = "sql"
