package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var defaultSchema []byte

// DefaultSchema returns the embedded JSON Schema for stored task lists.
func DefaultSchema() []byte {
	return append([]byte(nil), defaultSchema...)
}

const defaultSchemaURL = "https://todolist.local/task-list.schema.json"

// embeddedValidator compiles the embedded schema once per process.
var embeddedValidator = sync.OnceValues(func() (*Validator, error) {
	return NewValidator("")
})

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	// Present is false when the store holds nothing under the key.
	Present bool
	Tasks   []Task
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}
}

func (r *ValidationResult) fail(path string, err error) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{Path: path, Err: err})
}

// Validator checks a decoded payload against a compiled JSON Schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the schema at schemaPath, or the embedded schema when
// schemaPath is empty.
func NewValidator(schemaPath string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	url := defaultSchemaURL
	if schemaPath == "" {
		if err := compiler.AddResource(url, bytes.NewReader(defaultSchema)); err != nil {
			return nil, fmt.Errorf("load embedded schema: %w", err)
		}
	} else {
		absPath, err := filepath.Abs(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("invalid schema path: %w", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("read schema file: %w", err)
		}
		url = absPath
	}

	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks a JSON document and records every violation in result.
func (v *Validator) Validate(doc []byte, result *ValidationResult) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var obj any
	if err := dec.Decode(&obj); err != nil {
		result.fail("", fmt.Errorf("parse payload: %w", err))
		return
	}
	if err := v.schema.Validate(obj); err != nil {
		appendSchemaErrors(result, err)
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.fail("", err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.fail(taskPath(err.InstanceLocation), fmt.Errorf("%s", err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// taskPath renders a JSON Pointer into the stored list as "[1].detail".
func taskPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	var b strings.Builder
	for _, tok := range strings.Split(ptr, "/") {
		tok = pointerUnescaper.Replace(tok)
		switch _, err := strconv.Atoi(tok); {
		case tok == "":
		case err == nil:
			b.WriteString("[" + tok + "]")
		case b.Len() == 0:
			b.WriteString(tok)
		default:
			b.WriteString("." + tok)
		}
	}
	return b.String()
}

// validateIDs reports duplicate IDs, which the schema cannot express.
func validateIDs(tasks []Task, result *ValidationResult) {
	seen := make(map[int64]int, len(tasks))
	for i, t := range tasks {
		if first, ok := seen[t.ID]; ok {
			result.fail(fmt.Sprintf("[%d].id", i), fmt.Errorf("duplicate id %d (first at [%d])", t.ID, first))
			continue
		}
		seen[t.ID] = i
	}
}
