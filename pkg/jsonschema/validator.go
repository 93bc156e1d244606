// Package jsonschema validates JSON documents against JSON Schema definitions.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "schema.json"

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled schema that can be reused across validations.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile parses and compiles schemaStr.
func Compile(schemaStr string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// MustCompile is like Compile but panics if the schema is invalid.
// It is intended for schemas embedded in the binary.
func MustCompile(schemaStr string) *Schema {
	s, err := Compile(schemaStr)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks data against the schema. A nil result means data is valid.
func (s *Schema) Validate(data []byte) ValidationErrors {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}
	}

	err := s.compiled.Validate(doc)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractValidationErrors(validationErr)
	}
	return ValidationErrors{err}
}

// Validate validates a JSON string against a JSON Schema.
// It returns an error only when the schema or the JSON itself cannot be parsed.
func Validate(jsonStr, schemaStr string) (bool, error) {
	s, err := Compile(schemaStr)
	if err != nil {
		return false, err
	}

	errs := s.Validate([]byte(jsonStr))
	for _, e := range errs {
		if strings.HasPrefix(e.Error(), "invalid JSON") {
			return false, e
		}
	}
	return len(errs) == 0, nil
}

// ValidateWithErrors validates a JSON string against a JSON Schema and
// returns every violation found.
func ValidateWithErrors(jsonStr, schemaStr string) (bool, ValidationErrors) {
	s, err := Compile(schemaStr)
	if err != nil {
		return false, ValidationErrors{err}
	}

	errs := s.Validate([]byte(jsonStr))
	return len(errs) == 0, errs
}

// extractValidationErrors flattens a validation error tree into its leaf messages
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors

	if err.Message != "" && len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		errs = append(errs, fmt.Errorf("validation error at %s: %s", location, err.Message))
	}

	for _, cause := range err.Causes {
		errs = append(errs, extractValidationErrors(cause)...)
	}

	if len(errs) == 0 {
		errs = append(errs, fmt.Errorf("validation error: %s", err.Message))
	}
	return errs
}
