package tasks

import (
	"errors"
	"fmt"
	"strings"
)

// EmptyTaskMessage is the alert shown when the user submits blank text.
const EmptyTaskMessage = "Please enter a task!"

// ValidationError reports rejected user input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ErrEmptyTask is returned by SubmitFromUser for empty or whitespace-only text.
var ErrEmptyTask = &ValidationError{Field: "text", Err: errors.New("task text is empty")}

// Task is a single to-do entry. Text is never empty.
type Task struct {
	Text string `json:"text"`
}

// NewTask trims raw and returns the task, or ErrEmptyTask.
func NewTask(raw string) (Task, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Task{}, ErrEmptyTask
	}
	return Task{Text: text}, nil
}

// Row is a visible entry. ID is an in-memory handle and is never persisted.
type Row struct {
	ID   string
	Task Task

	// persisted is the slot entry the row was hydrated from, untrimmed.
	persisted string
}

// Text returns the row's task text.
func (r Row) Text() string {
	return r.Task.Text
}
