package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var Files embed.FS

// Dialect maps a database driver name to its migration directory
func Dialect(driver string) string {
	switch driver {
	case "postgres", "pgx":
		return "postgres"
	default:
		return "sqlite"
	}
}

// GetFS returns the migrations filesystem for the given driver
func GetFS(driver string) (fs.FS, error) {
	sub, err := fs.Sub(Files, Dialect(driver))
	if err != nil {
		return nil, fmt.Errorf("migrations for %s: %w", driver, err)
	}
	return sub, nil
}
