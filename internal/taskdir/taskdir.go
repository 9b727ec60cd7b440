// Package taskdir provides constants and helpers for the .tasklist directory.
package taskdir

import "path/filepath"

const (
	// Dir is the name of the tasklist state directory.
	Dir = ".tasklist"

	// StorageFile is the default storage document name (inside .tasklist).
	StorageFile = "storage.json"

	// DatabaseFile is the default SQLite database name (inside .tasklist).
	DatabaseFile = "storage.db"

	// ConfigFile is the config file name, inside .tasklist or a project.
	ConfigFile = "tasklist.toml"
)

// DirPath returns the .tasklist directory under base.
func DirPath(base string) string {
	if base == "" {
		base = "."
	}
	return filepath.Join(base, Dir)
}

// StoragePath returns the storage document path under base.
func StoragePath(base string) string {
	return filepath.Join(DirPath(base), StorageFile)
}

// DatabasePath returns the SQLite database path under base.
func DatabasePath(base string) string {
	return filepath.Join(DirPath(base), DatabaseFile)
}

// ConfigPath returns the config file path under base.
func ConfigPath(base string) string {
	return filepath.Join(DirPath(base), ConfigFile)
}
