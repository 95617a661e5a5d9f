package protocol

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/step.schema.json
var stepSchemaJSON []byte

const stepSchemaURL = "https://gemgrid.ai/schemas/step.schema.json"

var (
	stepSchemaOnce sync.Once
	stepSchema     *jsonschema.Schema
	stepSchemaErr  error
)

func compiledStepSchema() (*jsonschema.Schema, error) {
	stepSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(stepSchemaURL, bytes.NewReader(stepSchemaJSON)); err != nil {
			stepSchemaErr = err
			return
		}
		stepSchema, stepSchemaErr = c.Compile(stepSchemaURL)
	})
	return stepSchema, stepSchemaErr
}

// DecodeStep validates raw against the STEP schema and decodes it.
func DecodeStep(raw []byte) (StepMsg, error) {
	s, err := compiledStepSchema()
	if err != nil {
		return StepMsg{}, fmt.Errorf("step schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return StepMsg{}, err
	}
	if err := s.Validate(doc); err != nil {
		return StepMsg{}, err
	}
	var m StepMsg
	if err := json.Unmarshal(raw, &m); err != nil {
		return StepMsg{}, err
	}
	return m, nil
}
