// Package schemas validates JSON documents against JSON Schemas, including the
// schemas embedded with the analyzer.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	embedded "github.com/jonathan/job-match-analyzer/schemas"
)

// FieldError is one schema violation. Field is a dotted path, "(root)" for the
// document itself; Rule is the keyword that failed, such as "required".
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "validation failed against %s (%d errors):\n", e.Schema, len(e.Errors))
	for _, fe := range e.Errors {
		fmt.Fprintf(&sb, "  - %s: %s\n", fe.Field, fe.Message)
	}
	return sb.String()
}

// LoadError means the schema itself could not be read or compiled.
type LoadError struct {
	Schema string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Schema, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

func compile(name string, data []byte) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &LoadError{Schema: name, Cause: err}
	}
	return schema, nil
}

func check(name string, schema *gojsonschema.Schema, doc []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: name}
	for _, re := range result.Errors() {
		field := re.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Rule: re.Type(), Message: re.Description()})
	}
	return verr
}

// ValidateFile validates the JSON document at jsonPath against the schema at
// schemaPath.
func ValidateFile(schemaPath, jsonPath string) error {
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return &LoadError{Schema: schemaPath, Cause: err}
	}
	doc, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	schema, err := compile(schemaPath, schemaData)
	if err != nil {
		return err
	}
	return check(schemaPath, schema, doc)
}

var compiled sync.Map // embedded file name -> *gojsonschema.Schema

func embeddedSchema(name string) (*gojsonschema.Schema, error) {
	if s, ok := compiled.Load(name); ok {
		return s.(*gojsonschema.Schema), nil
	}
	data, err := embedded.FS.ReadFile(name)
	if err != nil {
		return nil, &LoadError{Schema: name, Cause: err}
	}
	schema, err := compile(name, data)
	if err != nil {
		return nil, err
	}
	s, _ := compiled.LoadOrStore(name, schema)
	return s.(*gojsonschema.Schema), nil
}

// ValidateBytes validates raw JSON against an embedded schema named by its file
// name, for example embedded.AnalysisResult.
func ValidateBytes(schemaName string, data []byte) error {
	schema, err := embeddedSchema(schemaName)
	if err != nil {
		return err
	}
	return check(schemaName, schema, data)
}

// Validate checks the JSON encoding of v against an embedded schema.
func Validate(schemaName string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return ValidateBytes(schemaName, data)
}

// ValidateResult checks an analysis result against the published result schema
func ValidateResult(v any) error {
	return Validate(embedded.AnalysisResult, v)
}
