package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed plan_schema.json
var planSchemaJSON string

// Document is the provider-facing JSON shape the model-driven planner asks
// for: one to five steps, each with description, toolName and parameters.
type Document struct {
	Steps []Step `json:"steps"`
}

var (
	compileOnce sync.Once
	planSchema  *jsonschema.Schema
	compileErr  error
)

// Schema returns the compiled JSON Schema for plan documents.
func Schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("plan_schema.json", strings.NewReader(planSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile("plan_schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile plan schema: %w", err)
			return
		}
		planSchema = schema
	})
	return planSchema, compileErr
}

// SchemaJSON returns the raw schema document for inclusion in prompts.
func SchemaJSON() string {
	return planSchemaJSON
}

// ParseDocument decodes and schema-checks a raw plan document, returning the
// resulting plan. Any failure is reported as a bad-model-output planning
// error wrapping the cause.
func ParseDocument(raw []byte) (Plan, error) {
	schema, err := Schema()
	if err != nil {
		return Plan{}, ErrBadModelOutput(err)
	}

	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return Plan{}, ErrBadModelOutput(fmt.Errorf("decode plan document: %w", err))
	}
	if err := schema.Validate(generic); err != nil {
		return Plan{}, ErrBadModelOutput(fmt.Errorf("plan document schema: %w", err))
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Plan{}, ErrBadModelOutput(fmt.Errorf("unmarshal plan document: %w", err))
	}
	return Plan{Steps: doc.Steps}, nil
}
