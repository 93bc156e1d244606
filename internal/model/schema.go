package model

import (
	_ "embed"
	"fmt"

	"github.com/wesleyorama2/apibench/pkg/jsonschema"
)

// Schema is the JSON Schema for a payload: an array of records.
//
//go:embed schema.json
var Schema string

var payloadSchema = jsonschema.MustCompile(Schema)

// Validate checks that data is a payload matching Schema.
// All violations are reported in the returned error.
func Validate(data []byte) error {
	if errs := payloadSchema.Validate(data); len(errs) > 0 {
		return fmt.Errorf("payload does not match schema: %w", errs)
	}
	return nil
}
