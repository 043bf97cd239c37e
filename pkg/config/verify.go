package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var embeddedSchema string

// schemaURL is the location the embedded schema is registered under, same as its $id
const schemaURL = "https://github.com/finews/newsbrief/pkg/config/config"

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	return verify(cfg, embeddedSchema)
}

func verify(cfg *Config, schemaData string) error {
	schema, err := compileSchema(schemaData)
	if err != nil {
		return err
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	doc, err := validator.UnmarshalJSON(bytes.NewReader(configData))
	if err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func compileSchema(schemaData string) (*validator.Schema, error) {
	doc, err := validator.UnmarshalJSON(strings.NewReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("parse embedded schema: %w", err)
	}

	c := validator.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{RequiredFromJSONSchemaTags: true}
	return r.Reflect(&Config{})
}
