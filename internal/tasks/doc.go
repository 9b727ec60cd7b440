// Package tasks implements the task list controller.
//
// The controller owns the visible rows and keeps them in step with a
// store.TaskStore. Two entry points add rows:
//
//   - Hydrate replays text already persisted. It never writes the store and
//     silently skips empty text.
//   - SubmitFromUser accepts text typed by the user. Empty text raises the
//     "Please enter a task!" alert and returns ErrEmptyTask. Accepted text is
//     appended to the persisted sequence before the row appears.
//
// Remove detaches a row by handle and deletes the first persisted entry
// with the same text. Removing a detached row is a no-op.
//
// A slot that fails to parse is treated as an empty sequence. It is logged,
// never shown to the user.
package tasks
