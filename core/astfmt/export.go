package astfmt

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aledsdavies/pipeparse/core/ast"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://pipeparse/ast.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema (Draft 2020-12) that MarshalJSON output
// conforms to.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// MarshalJSON renders root as an indented JSON document with positions.
func MarshalJSON(root ast.Node) ([]byte, error) {
	doc, err := Canonicalize(root)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("JSON encoding failed: %w", err)
	}
	return append(data, '\n'), nil
}

// UnmarshalJSON validates data against the schema and decodes it.
func UnmarshalJSON(data []byte) (*Document, error) {
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("JSON decoding failed: %w", err)
	}
	return &doc, nil
}

// ValidateJSON checks a JSON document against the AST schema.
func ValidateJSON(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("schema compilation failed: %w", err)
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		// The schema is self-contained; refuse remote $ref resolution
		compiler.LoadURL = func(url string) (io.ReadCloser, error) {
			return nil, fmt.Errorf("external schema reference not allowed: %s", url)
		}

		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// MarshalYAML renders root as a YAML document with positions.
func MarshalYAML(root ast.Node) ([]byte, error) {
	doc, err := Canonicalize(root)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("YAML encoding failed: %w", err)
	}
	return data, nil
}

// UnmarshalYAML decodes a document produced by MarshalYAML.
func UnmarshalYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("YAML decoding failed: %w", err)
	}
	return &doc, nil
}
