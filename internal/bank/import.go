package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// statementSchema describes the JSON shape accepted by ImportJSON.
var statementSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"transactions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"date":        map[string]any{"type": "string", "format": "date"},
					"description": map[string]any{"type": "string", "minLength": 1},
					"amount":      map[string]any{"type": "number"},
				},
				"required":             []any{"date", "description", "amount"},
				"additionalProperties": false,
			},
		},
	},
	"required": []any{"transactions"},
}

type statementFile struct {
	Transactions []statementLine `json:"transactions"`
}

type statementLine struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// validateStatement checks raw statement JSON against statementSchema.
func validateStatement(data []byte) error {
	b, err := json.Marshal(statementSchema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("statement.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("statement.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal statement: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("statement does not match schema: %w", err)
	}
	return nil
}

// ImportJSON validates and loads a bank statement export. All lines are
// validated before any is recorded. Returns the imported transactions.
func (s *Service) ImportJSON(data []byte) ([]*Transaction, error) {
	if err := validateStatement(data); err != nil {
		return nil, err
	}

	var file statementFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal statement: %w", err)
	}

	lines := make([]struct {
		date time.Time
		statementLine
	}, len(file.Transactions))
	for i, line := range file.Transactions {
		date, err := time.Parse("2006-01-02", line.Date)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing date %q: %w", i+1, line.Date, err)
		}
		if line.Amount == 0 {
			return nil, fmt.Errorf("line %d: %w", i+1, ErrZeroAmount)
		}
		lines[i].date = date
		lines[i].statementLine = line
	}

	imported := make([]*Transaction, 0, len(lines))
	for _, line := range lines {
		tx, err := s.Add(line.date, line.Description, line.Amount)
		if err != nil {
			return imported, err
		}
		imported = append(imported, tx)
	}
	return imported, nil
}
