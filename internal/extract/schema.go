package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildFieldSetJSONSchema returns a JSON-Schema (draft 2020-12 subset) for
// the serialized FieldSet, as a generic map. It is used to gate output
// before persistence or export. When strict is true unknown top-level keys
// are rejected.
func BuildFieldSetJSONSchema(strict bool) map[string]any {
	props := map[string]any{
		"invoice_number": envelopeProp("string"),
		"dates": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"invoice_date": dateEnvelopeProp(),
				"due_date":     dateEnvelopeProp(),
				"other_dates":  map[string]any{"type": []string{"array", "null"}},
			},
			"required": []string{"invoice_date", "due_date"},
		},
		"amounts": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"total":    envelopeProp("number"),
				"subtotal": envelopeProp("number"),
				"tax":      envelopeProp("number"),
				"discount": envelopeProp("number"),
			},
			"required": []string{"total", "subtotal", "tax", "discount"},
		},
		"tax_info": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tax_id":         envelopeProp("string"),
				"tax_percentage": envelopeProp("number"),
			},
			"required": []string{"tax_id", "tax_percentage"},
		},
		"vendor_info": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  envelopeProp("string"),
				"phone": envelopeProp("string"),
				"email": envelopeProp("string"),
			},
			"required": []string{"name", "phone", "email"},
		},
		"customer_info": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": envelopeProp("string"),
			},
			"required": []string{"name"},
		},
		"line_items": map[string]any{
			"type": []string{"array", "null"},
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"description": map[string]any{"type": "string"},
					"quantity":    map[string]any{"type": []string{"integer", "null"}},
					"unit_price":  map[string]any{"type": []string{"number", "null"}},
					"amount":      map[string]any{"type": []string{"number", "null"}},
					"confidence":  confidenceProp(),
				},
				"required": []string{"description", "confidence"},
			},
		},
		"currency":      envelopeProp("string"),
		"payment_terms": envelopeProp("string"),
		"metadata": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"extraction_confidence": confidenceProp(),
				"fields_extracted":      map[string]any{"type": "integer", "minimum": 0},
				"total_fields":          map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []string{"extraction_confidence", "fields_extracted", "total_fields"},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": !strict,
		"properties":           props,
		"required": []string{
			"invoice_number", "dates", "amounts", "tax_info", "vendor_info",
			"customer_info", "currency", "payment_terms", "metadata",
		},
	}
}

// envelopeProp describes one field envelope whose value, when present, has
// the given JSON type.
func envelopeProp(valueType string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value":      map[string]any{"type": []string{valueType, "null"}},
			"confidence": confidenceProp(),
			"source":     map[string]any{"type": "string"},
			"zone":       map[string]any{"type": "string"},
		},
		"required": []string{"value", "confidence"},
	}
}

// dateEnvelopeProp is envelopeProp("string") with the value pinned to
// YYYY-MM-DD.
func dateEnvelopeProp() map[string]any {
	p := envelopeProp("string")
	p["properties"].(map[string]any)["value"] = map[string]any{
		"type":    []string{"string", "null"},
		"pattern": `^\d{4}-\d{2}-\d{2}$`,
	}
	return p
}

func confidenceProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}
}

// ValidateAgainstSchema validates serialized JSON against a schema map.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
