// Package schema holds the JSON Schemas of the datasets wahlzettel writes
// and reads, and validates encoded files against them.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const (
	// Election is the canonical dataset.
	Election = "election"
	// Legacy is the older per-city layout accepted by normalize-legacy.
	Legacy = "legacy"
)

// Schema is one embedded JSON Schema.
type Schema struct {
	Name        string
	Description string
	Raw         []byte
}

var registry = []Schema{
	{Name: Election, Description: "canonical candidate-list dataset"},
	{Name: Legacy, Description: "legacy per-city dataset"},
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

// All returns every schema with its raw document.
func All() ([]Schema, error) {
	out := make([]Schema, 0, len(registry))
	for _, s := range registry {
		got, err := Get(s.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, *got)
	}
	return out, nil
}

// Get returns a single schema by name.
func Get(name string) (*Schema, error) {
	for _, s := range registry {
		if s.Name != name {
			continue
		}
		raw, err := schemaFS.ReadFile(filename(name))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		s.Raw = raw
		return &s, nil
	}
	return nil, fmt.Errorf("schema not found: %s", name)
}

func filename(name string) string {
	return "schemas/" + name + ".schema.json"
}

func compileAll() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*jsonschema.Schema, len(registry))
		schemas, err := All()
		if err != nil {
			compileErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		for _, s := range schemas {
			if err := compiler.AddResource(filename(s.Name), bytes.NewReader(s.Raw)); err != nil {
				compileErr = fmt.Errorf("failed to load schema %s: %w", s.Name, err)
				return
			}
		}
		for _, s := range schemas {
			sch, err := compiler.Compile(filename(s.Name))
			if err != nil {
				compileErr = fmt.Errorf("failed to compile schema %s: %w", s.Name, err)
				return
			}
			compiled[s.Name] = sch
		}
	})
	return compiled, compileErr
}

// ValidateAs checks an encoded document against the named schema.
func ValidateAs(name string, raw []byte) error {
	schemas, err := compileAll()
	if err != nil {
		return err
	}
	sch, ok := schemas[name]
	if !ok {
		return fmt.Errorf("schema not found: %s", name)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode JSON for validation: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("document does not match %s schema: %w", name, err)
	}
	return nil
}

// Validate checks an encoded canonical dataset.
func Validate(raw []byte) error {
	return ValidateAs(Election, raw)
}
