// Package config loads rule sets and evaluation documents from YAML or JSON.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
)

//go:embed schema/ruleset.schema.json
var ruleSetSchema []byte

//go:embed rulesets/default.yaml
var defaultRuleSet []byte

const schemaResource = "ruleset.schema.json"

// DefaultRuleSet returns the bundled rule set document.
func DefaultRuleSet() []byte {
	return bytes.Clone(defaultRuleSet)
}

// RuleSetSchema returns the JSON Schema rule set documents are validated against.
func RuleSetSchema() []byte {
	return bytes.Clone(ruleSetSchema)
}

// RuleSetParser turns rule set documents into compiled snapshots. A document
// must pass the JSON Schema before it is compiled.
type RuleSetParser struct {
	schema *jsonschema.Schema
}

// NewRuleSetParser compiles the embedded schema.
func NewRuleSetParser() (*RuleSetParser, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource(schemaResource, bytes.NewReader(ruleSetSchema)); err != nil {
		return nil, fmt.Errorf("failed to add rule set schema: %w", err)
	}
	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rule set schema: %w", err)
	}
	return &RuleSetParser{schema: schema}, nil
}

// Parse validates and compiles a rule set document. Any failure is returned
// as *apperrors.RuleSetError naming source.
func (p *RuleSetParser) Parse(data []byte, source string) (*rules.Snapshot, error) {
	def, err := p.Decode(data)
	if err != nil {
		var rsErr *apperrors.RuleSetError
		if errors.As(err, &rsErr) {
			rsErr.Source = source
			return nil, rsErr
		}
		return nil, apperrors.NewRuleSetError(source, err)
	}

	snap, err := rules.Compile(*def)
	if err != nil {
		return nil, apperrors.NewRuleSetError(source, err)
	}
	return snap, nil
}

// Decode validates a document against the schema and decodes it without
// compiling.
func (p *RuleSetParser) Decode(data []byte) (*rules.Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("rule set document is empty")
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule set YAML: %w", err)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule set document: %w", err)
	}

	if err := p.schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return nil, apperrors.NewRuleSetError("", errors.New("schema validation failed"), schemaMessages(validationErr)...)
		}
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var def rules.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to decode rule set: %w", err)
	}
	return &def, nil
}

// schemaMessages flattens a validation error tree into one line per leaf.
func schemaMessages(err *jsonschema.ValidationError) []string {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 && e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		messages = append(messages, strings.TrimSpace(err.Error()))
	}
	return messages
}
