package store

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasklist/internal/utils"
)

//go:embed tasks.schema.json
var slotSchemaSource string

const slotSchemaURL = "https://tasklist.invalid/tasks.schema.json"

var (
	slotSchemaOnce sync.Once
	slotSchema     *jsonschema.Schema
	slotSchemaErr  error
)

func compiledSlotSchema() (*jsonschema.Schema, error) {
	slotSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(slotSchemaURL, strings.NewReader(slotSchemaSource)); err != nil {
			slotSchemaErr = fmt.Errorf("add slot schema: %w", err)
			return
		}
		slotSchema, slotSchemaErr = compiler.Compile(slotSchemaURL)
	})
	return slotSchema, slotSchemaErr
}

// validateSlot checks a decoded slot value against the embedded schema.
func validateSlot(value interface{}) error {
	schema, err := compiledSlotSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(value); err != nil {
		return describeSchemaError(err)
	}
	return nil
}

// describeSchemaError flattens a schema validation error into the first
// leaf cause, e.g. "[1]: expected string, but got number".
func describeSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	path := utils.JSONPointerToPath(ve.InstanceLocation)
	if path == "" {
		return errors.New(ve.Message)
	}
	return fmt.Errorf("%s: %s", path, ve.Message)
}
