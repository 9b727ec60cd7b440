// Package store persists the ordered task sequence in a key-value slot.
//
// Every backend keeps one value per key. The task list lives under the
// "tasks" key and its value is a JSON array of strings:
//
//	["buy milk", "walk dog"]
//
// # Backends
//
//   - file: a JSON object document on disk, one member per key.
//     Unrelated members are preserved on save.
//   - sqlite: a kv(key, value) table, value holding the array text.
//   - memory: an in-process slot, selected with --backend memory and used by tests.
//
// # Malformed slots
//
// A slot that is present but is not a JSON array of strings loads as an
// empty sequence together with an error wrapping ErrMalformed. Callers that
// prefer to start empty check for it with errors.Is and carry on. An absent
// slot is not an error.
package store
