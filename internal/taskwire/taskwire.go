// Package taskwire decodes the task status payloads the backend sends, both on the
// pull endpoint and on the push stream, into normalized model.Task values.
package taskwire

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/slok/wsc/internal/model"
)

// ErrMalformed is returned when a payload is not a valid task status.
var ErrMalformed = errors.New("malformed task payload")

const (
	defaultFailedError = "task failed"
	revokedError       = "task revoked"
)

//go:embed schema.json
var schemaJSON string

var taskSchema = mustCompileSchema(schemaJSON, "task.schema.json")

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// payload is the JSON shape of `GET /tasks/{id}` and of every stream message.
type payload struct {
	TaskID  string          `json:"task_id"`
	Status  string          `json:"status"`
	Current *float64        `json:"current"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	Error   string          `json:"error"`
}

// Decode validates and normalizes a task status payload.
func Decode(data []byte) (*model.Task, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w: %w", err, ErrMalformed)
	}

	if err := taskSchema.Validate(inst); err != nil {
		return nil, fmt.Errorf("invalid task status: %w: %w", err, ErrMalformed)
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("could not decode task status: %w: %w", err, ErrMalformed)
	}

	return p.toModel(), nil
}

func (p payload) toModel() *model.Task {
	t := &model.Task{
		ID:      p.TaskID,
		Message: p.Message,
	}

	switch p.Status {
	case "PENDING":
		t.Status = model.TaskStatusPending
	case "STARTED", "PROGRESS", "RETRY":
		t.Status = model.TaskStatusInProgress
		t.Progress = progress(p.Current)
	case "SUCCESS":
		t.Status = model.TaskStatusSucceeded
		t.Message = ""
		if len(p.Result) > 0 && string(p.Result) != "null" {
			t.Result = p.Result
		}
	case "FAILURE", "REVOKED":
		t.Status = model.TaskStatusFailed
		t.Message = ""
		t.Error = p.Error
		if t.Error == "" {
			t.Error = defaultFailedError
			if p.Status == "REVOKED" {
				t.Error = revokedError
			}
		}
	}

	return t
}

func progress(current *float64) int {
	if current == nil {
		return 0
	}

	v := int(math.Round(*current))
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
