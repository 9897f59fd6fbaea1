// Package migrations embeds the SQL schema into the binary so the server can
// migrate a fresh database without the files being on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/ecobuild-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
