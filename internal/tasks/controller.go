package tasks

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/tasklist/internal/store"
)

// Alerter shows a blocking notice to the user.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(message string)

// Alert calls f(message).
func (f AlerterFunc) Alert(message string) {
	f(message)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDFunc overrides row handle generation.
func WithIDFunc(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Controller keeps the visible rows and the persisted sequence in step.
// It is not safe for concurrent use.
type Controller struct {
	store   store.TaskStore
	alerter Alerter
	logger  *log.Logger
	newID   func() string
	rows    []Row
}

// New returns a controller over s. A nil alerter drops alerts.
func New(s store.TaskStore, alerter Alerter, opts ...Option) *Controller {
	c := &Controller{
		store:   s,
		alerter: alerter,
		logger:  log.New(io.Discard),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize discards the current rows and hydrates one row per persisted
// entry. It never writes the store. A malformed slot hydrates as empty and
// is not an error; other read errors are returned after the list is left
// empty.
func (c *Controller) Initialize() error {
	c.rows = nil

	persisted, err := c.load()
	if err != nil {
		return err
	}
	for _, text := range persisted {
		c.Hydrate(text)
	}

	c.logger.Debug("hydrated task list", "rows", len(c.rows), "persisted", len(persisted))
	return nil
}

// Hydrate appends a row for text that is already persisted. Empty text is
// skipped and reported false.
func (c *Controller) Hydrate(existingText string) (Row, bool) {
	task, err := NewTask(existingText)
	if err != nil {
		c.logger.Debug("skipping empty persisted task")
		return Row{}, false
	}
	return c.appendRow(task, existingText), true
}

// SubmitFromUser validates rawText, appends it to the persisted sequence
// and then to the visible list. Empty text alerts the user and returns
// ErrEmptyTask with nothing modified. When saving fails no row is added.
func (c *Controller) SubmitFromUser(rawText string) (Row, error) {
	task, err := NewTask(rawText)
	if err != nil {
		c.alert(EmptyTaskMessage)
		return Row{}, err
	}

	persisted, err := c.load()
	if err != nil {
		return Row{}, err
	}
	persisted = append(persisted, task.Text)
	if err := c.store.Save(persisted); err != nil {
		return Row{}, fmt.Errorf("save tasks: %w", err)
	}

	row := c.appendRow(task, task.Text)
	c.logger.Debug("added task", "text", task.Text, "persisted", len(persisted))
	return row, nil
}

// Remove detaches the row with handle id and deletes the first persisted
// entry equal to the one the row came from. Unknown or already detached
// handles are a no-op. The row stays detached even when saving fails.
func (c *Controller) Remove(id string) error {
	idx := slices.IndexFunc(c.rows, func(r Row) bool { return r.ID == id })
	if idx < 0 {
		return nil
	}
	row := c.rows[idx]
	c.rows = slices.Delete(c.rows, idx, idx+1)

	persisted, err := c.load()
	if err != nil {
		return err
	}
	pos := slices.Index(persisted, row.persisted)
	if pos < 0 {
		c.logger.Debug("removed task not persisted", "text", row.Text())
		return nil
	}
	persisted = slices.Delete(persisted, pos, pos+1)
	if err := c.store.Save(persisted); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}

	c.logger.Debug("removed task", "text", row.Text(), "persisted", len(persisted))
	return nil
}

// Rows returns a copy of the visible rows in order.
func (c *Controller) Rows() []Row {
	return slices.Clone(c.rows)
}

// Texts returns the visible task texts in order.
func (c *Controller) Texts() []string {
	texts := make([]string, len(c.rows))
	for i, r := range c.rows {
		texts[i] = r.Text()
	}
	return texts
}

// Len returns the number of visible rows.
func (c *Controller) Len() int {
	return len(c.rows)
}

func (c *Controller) appendRow(task Task, persisted string) Row {
	row := Row{ID: c.newID(), Task: task, persisted: persisted}
	c.rows = append(c.rows, row)
	return row
}

// load reads the persisted sequence, substituting empty for a malformed slot.
func (c *Controller) load() ([]string, error) {
	persisted, err := c.store.Load()
	if err != nil {
		if errors.Is(err, store.ErrMalformed) {
			c.logger.Warn("treating malformed task slot as empty", "err", err)
			return []string{}, nil
		}
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if persisted == nil {
		persisted = []string{}
	}
	return persisted, nil
}

func (c *Controller) alert(message string) {
	if c.alerter != nil {
		c.alerter.Alert(message)
	}
}
