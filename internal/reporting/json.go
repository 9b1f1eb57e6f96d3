package reporting

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spboyer/introscore/internal/models"
)

//go:embed report.schema.json
var reportSchemaJSON []byte

var (
	reportSchemaOnce sync.Once
	reportSchema     *jsonschema.Schema
	reportSchemaErr  error
)

func compiledReportSchema() (*jsonschema.Schema, error) {
	reportSchemaOnce.Do(func() {
		schemaValue, err := jsonschema.UnmarshalJSON(bytes.NewReader(reportSchemaJSON))
		if err != nil {
			reportSchemaErr = fmt.Errorf("failed to parse report schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("report.schema.json", schemaValue); err != nil {
			reportSchemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		reportSchema, reportSchemaErr = compiler.Compile("report.schema.json")
	})
	return reportSchema, reportSchemaErr
}

// ValidateReportJSON checks a serialized ScoreReport against the report schema.
func ValidateReportJSON(data []byte) error {
	schema, err := compiledReportSchema()
	if err != nil {
		return err
	}

	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("report is not valid JSON: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	return nil
}

// WriteReportJSON writes an indented ScoreReport after validating it.
func WriteReportJSON(w io.Writer, report *models.ScoreReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := ValidateReportJSON(data); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
