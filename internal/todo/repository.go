package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/todolist-go/internal/storage"
)

// DefaultKey is the storage key the list is saved under.
const DefaultKey = "listTask"

// Storage is the collaborator the Store loads from and flushes to.
type Storage interface {
	// Load returns the stored list. The bool is false when nothing is stored.
	Load(ctx context.Context) ([]Task, bool, error)
	// Save replaces the stored list.
	Save(ctx context.Context, tasks []Task) error
}

// Codec converts a task list to and from its textual form.
type Codec interface {
	Name() string
	// Ext is the file extension for the encoding, including the dot.
	Ext() string
	Marshal(tasks []Task) ([]byte, error)
	// ToJSON converts stored bytes to a plain JSON document.
	ToJSON(data []byte) ([]byte, error)
}

// JSONCodec writes indented JSON and reads JSON with comments and trailing commas.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }
func (JSONCodec) Ext() string  { return ".json" }

// Marshal writes the list with 2-space indentation and a trailing newline.
func (JSONCodec) Marshal(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (JSONCodec) ToJSON(data []byte) ([]byte, error) {
	return hujson.Standardize(data)
}

// YAMLCodec reads and writes YAML.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }
func (YAMLCodec) Ext() string  { return ".yaml" }

func (YAMLCodec) Marshal(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tasks); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) ToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("empty document")
	}
	return json.Marshal(doc)
}

// CodecFor returns the codec for an encoding name.
func CodecFor(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	}
	return nil, fmt.Errorf("unknown encoding %q (expected json|yaml)", name)
}

// Repository stores the task list under a single key of a KV store.
type Repository struct {
	KV    storage.KV
	Key   string
	Codec Codec
	// Validator checks payloads before they are decoded. Nil skips schema checks.
	Validator *Validator
}

// NewRepository returns a repository with the default key, JSON encoding and
// the embedded schema. It panics if the embedded schema does not compile.
func NewRepository(kv storage.KV) *Repository {
	v, err := embeddedValidator()
	if err != nil {
		panic(fmt.Sprintf("todo: embedded schema: %v", err))
	}
	return &Repository{
		KV:        kv,
		Key:       DefaultKey,
		Codec:     JSONCodec{},
		Validator: v,
	}
}

func (r *Repository) key() string {
	if r.Key == "" {
		return DefaultKey
	}
	return r.Key
}

func (r *Repository) codec() Codec {
	if r.Codec == nil {
		return JSONCodec{}
	}
	return r.Codec
}

// Load reads and validates the stored list.
// Any schema violation makes Load fail; callers decide how to degrade.
func (r *Repository) Load(ctx context.Context) ([]Task, bool, error) {
	result, err := r.Validate(ctx)
	if err != nil {
		return nil, false, err
	}
	if !result.Present {
		return nil, false, nil
	}
	if !result.Valid {
		return nil, true, fmt.Errorf("invalid task list: %w", result.Errors[0])
	}
	return result.Tasks, true, nil
}

// Save encodes tasks and writes them under the repository key.
func (r *Repository) Save(ctx context.Context, tasks []Task) error {
	data, err := r.codec().Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal task list: %w", err)
	}
	if err := r.KV.Put(ctx, r.key(), data); err != nil {
		return fmt.Errorf("write task list: %w", err)
	}
	return nil
}

// Validate reads the stored payload and reports every problem found.
// The error is non-nil only when the store itself cannot be read.
func (r *Repository) Validate(ctx context.Context) (*ValidationResult, error) {
	result := newValidationResult()

	raw, ok, err := r.KV.Get(ctx, r.key())
	if err != nil {
		return nil, fmt.Errorf("read task list: %w", err)
	}
	if !ok {
		return result, nil
	}
	result.Present = true

	if len(bytes.TrimSpace(raw)) == 0 {
		result.fail("", fmt.Errorf("empty payload"))
		return result, nil
	}

	doc, err := r.codec().ToJSON(raw)
	if err != nil {
		result.fail("", fmt.Errorf("parse %s payload: %w", r.codec().Name(), err))
		return result, nil
	}

	if r.Validator != nil {
		r.Validator.Validate(doc, result)
	} else {
		result.Warnings = append(result.Warnings, "schema validation disabled, using minimal checks")
	}
	if !result.Valid {
		return result, nil
	}

	var tasks []Task
	if err := json.Unmarshal(doc, &tasks); err != nil {
		result.fail("", fmt.Errorf("decode task list: %w", err))
		return result, nil
	}
	if tasks == nil {
		tasks = []Task{}
	}
	validateIDs(tasks, result)
	result.Tasks = tasks
	return result, nil
}
