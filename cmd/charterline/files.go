package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	compliance "charterline/internal/compliance/models"
	"charterline/internal/recommendation"
)

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// decodeIntake accepts YAML or JSON. The document is normalized to JSON so
// the intake record's field-by-field decoder applies to both.
func decodeIntake(data []byte) (compliance.IntakeRecord, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return compliance.IntakeRecord{}, fmt.Errorf("parse intake: %w", err)
	}
	if doc == nil {
		return compliance.IntakeRecord{}, fmt.Errorf("parse intake: document is empty")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return compliance.IntakeRecord{}, fmt.Errorf("normalize intake: %w", err)
	}
	var record compliance.IntakeRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return compliance.IntakeRecord{}, fmt.Errorf("decode intake: %w", err)
	}
	return record, nil
}

func decodeAnswers(data []byte) (recommendation.ExplorationAnswers, error) {
	var answers recommendation.ExplorationAnswers
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return answers, fmt.Errorf("parse answers: %w", err)
	}
	return answers, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
