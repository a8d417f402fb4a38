package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"go.yaml.in/yaml/v3"
)

// InvalidError reports schema violations in a definition file.
type InvalidError struct {
	Source string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("invalid generator definition %s: %s", e.Source, strings.Join(parts, "; "))
}

// Parse decodes a definition, choosing the format from the source file
// extension: .hcl is HCL, anything else is YAML.
func Parse(data []byte, source string) (*Definition, error) {
	if strings.EqualFold(filepath.Ext(source), ".hcl") {
		return ParseHCL(data, source)
	}
	return ParseYAML(data, source)
}

// ParseYAML validates data against the definition schema and decodes it.
// Unknown keys are rejected.
func ParseYAML(data []byte, source string) (*Definition, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("parsing definition %s: %w", source, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Source: source, Issues: result.Issues}
	}

	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("parsing definition %s: %w", source, err)
	}
	def.Source = source
	return &def, nil
}

// ParseHCL decodes an HCL definition:
//
//	name = "docs"
//	task "readme" {
//	  files = "README.md"
//	}
//	generator "api" {
//	  path = "api"
//	}
func ParseHCL(data []byte, source string) (*Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, source)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL definition %s: %w", source, diags)
	}

	var def Definition
	if diags := gohcl.DecodeBody(file.Body, nil, &def); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL definition %s: %w", source, diags)
	}

	result, err := ValidateDefinition(&def)
	if err != nil {
		return nil, fmt.Errorf("validating definition %s: %w", source, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Source: source, Issues: result.Issues}
	}
	def.Source = source
	return &def, nil
}

// IsInvalid reports whether err is a schema violation.
func IsInvalid(err error) bool {
	var ie *InvalidError
	return errors.As(err, &ie)
}
