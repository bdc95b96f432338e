package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://winrun.local/config.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the compiled configuration schema.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// SchemaJSON returns the raw schema document.
func SchemaJSON() []byte {
	return bytes.Clone(schemaJSON)
}

// ValidateDocument checks a raw configuration document against the
// schema. Unlike Validate it catches unknown keys, which the decoders
// silently ignore. An empty format is detected from the content.
func ValidateDocument(data []byte, format Format) error {
	schema, err := Schema()
	if err != nil {
		return err
	}

	if format == "" {
		if format, err = detectFormat(data); err != nil {
			return err
		}
	}

	var raw map[string]any
	if err := decode(data, format, &raw); err != nil {
		return err
	}
	if raw == nil {
		raw = map[string]any{}
	}

	// Round-trip through JSON so TOML and YAML scalars take the types the
	// validator expects.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}
	var instance any
	if err := json.Unmarshal(normalized, &instance); err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ValidateFile reads path and validates it with ValidateDocument.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return ValidateDocument(data, FormatForPath(path))
}
