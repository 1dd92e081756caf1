// Package schemas provides JSON Schema validation for structured agent
// replies. Validation is advisory: a reply that fails its schema is
// downgraded to free text by the caller, never rejected outright.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/careerflow-agent/internal/types"
)

//go:embed *.schema.json
var schemaFS embed.FS

var schemaFiles = map[types.AgentKind]string{
	types.AgentJobMatch:        "job_match.schema.json",
	types.AgentBulletEnhance:   "bullet_edits.schema.json",
	types.AgentCompanyResearch: "company_research.schema.json",
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[types.AgentKind]*gojsonschema.Schema)
)

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// HasSchema reports whether kind has a reply schema. Translate and chat
// replies are prose and have none.
func HasSchema(kind types.AgentKind) bool {
	_, ok := schemaFiles[kind]
	return ok
}

func schemaFor(kind types.AgentKind) (*gojsonschema.Schema, error) {
	cacheMu.RLock()
	schema, ok := cache[kind]
	cacheMu.RUnlock()
	if ok {
		return schema, nil
	}

	file, ok := schemaFiles[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for agent kind %s", kind)
	}

	content, err := schemaFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", file, err)
	}
	schema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", file, err)
	}

	cacheMu.Lock()
	cache[kind] = schema
	cacheMu.Unlock()
	return schema, nil
}

// ValidateReply validates raw JSON reply text against the schema for kind.
// Returns a *ValidationError when the document is valid JSON but violates
// the schema, or a plain error when the document is not parseable or the
// schema cannot be loaded.
func ValidateReply(kind types.AgentKind, jsonText string) error {
	schema, err := schemaFor(kind)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonText))
	if err != nil {
		return fmt.Errorf("failed to validate reply: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
