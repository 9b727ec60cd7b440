package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by TASKLIST_* environment variables or CLI flags

# Store backend: file, sqlite or memory
store_backend = "file"

# Storage document (file) or database (sqlite).
# Defaults to ~/.tasklist/storage.json or ~/.tasklist/storage.db
# store_path = "~/.tasklist/storage.json"

# Slot key holding the task list
store_key = "tasks"

# Logging: debug, info, warn, error
log_level = "warn"

# Log format: text, json, logfmt
log_format = "text"

log_timestamps = false
log_caller = false

# Write logs to a file (the TUI discards logs unless this is set)
# log_file = "~/.tasklist/tasklist.log"
`
}
