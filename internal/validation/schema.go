// Package validation checks team documents against an embedded JSON Schema
// before they reach the classifier.
package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaName = "teams.schema.json"

//go:embed teams.schema.json
var schemaJSON []byte

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

var (
	documentSchema *jsonschema.Schema
	recordSchema   *jsonschema.Schema
)

func init() {
	var doc any
	if err := json.Unmarshal(schemaJSON, &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", schemaName, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", schemaName, err))
	}
	documentSchema = mustCompile(compiler, schemaName)
	recordSchema = mustCompile(compiler, schemaName+"#/$defs/team")
}

func mustCompile(c *jsonschema.Compiler, loc string) *jsonschema.Schema {
	sch, err := c.Compile(loc)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", loc, err))
	}
	return sch
}

// ValidateDocument checks a JSON array of team records.
// It returns nil when the document is valid.
func ValidateDocument(data []byte) error {
	return validate(documentSchema, data)
}

// ValidateRecord checks a single team record.
func ValidateRecord(data []byte) error {
	return validate(recordSchema, data)
}

func validate(schema *jsonschema.Schema, data []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &Error{Problems: []string{fmt.Sprintf("JSON parse error: %v", err)}}
	}
	if problems := validateAgainstSchema(schema, inst); len(problems) > 0 {
		return &Error{Problems: problems}
	}
	return nil
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
