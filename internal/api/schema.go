package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const taskSchema = `{
  "type": "object",
  "required": ["id", "title", "status"],
  "properties": {
    "id": {"type": "integer", "minimum": 1},
    "title": {"type": "string"},
    "description": {"type": ["string", "null"]},
    "status": {"enum": ["PENDING", "IN_PROGRESS", "COMPLETED", "CANCELLED"]},
    "dueDate": {"type": ["string", "null"]},
    "createdDate": {"type": ["string", "null"]},
    "updatedDate": {"type": ["string", "null"]}
  }
}`

var taskListSchema = `{"type": "array", "items": ` + taskSchema + `}`

// validator checks raw backend bodies before they are decoded into tasks.
type validator struct {
	task *jsonschema.Schema
	list *jsonschema.Schema
}

func newValidator() (*validator, error) {
	task, err := compileSchema("task.schema.json", taskSchema)
	if err != nil {
		return nil, err
	}
	list, err := compileSchema("tasks.schema.json", taskListSchema)
	if err != nil {
		return nil, err
	}
	return &validator{task: task, list: list}, nil
}

func compileSchema(name, src string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

func (v *validator) validate(schema *jsonschema.Schema, body []byte) error {
	if v == nil {
		return nil
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPayload, firstCause(err))
	}
	return nil
}

// firstCause flattens a validation error to its first leaf message.
func firstCause(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}
