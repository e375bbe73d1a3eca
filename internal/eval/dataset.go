// Package eval runs the gate over sample datasets and aggregates the
// resulting decision records into dataset-level metrics.
package eval

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Persona is a dataset persona row (personas.json).
type Persona struct {
	PersonaID string   `json:"persona_id"`
	Name      string   `json:"name"`
	Interests []string `json:"interests"`
}

// Context is a conversation context row (contexts.jsonl).
type Context struct {
	ContextID string `json:"context_id"`
	PersonaID string `json:"persona_id"`
	UseCase   string `json:"use_case"`
}

// Sample is an unlabeled or labeled message row (samples_*.jsonl). Label is
// empty for unlabeled samples and SAFE/MOVE for sweep datasets.
type Sample struct {
	SampleID  string `json:"sample_id"`
	ContextID string `json:"context_id"`
	UserText  string `json:"user_text"`
	UseCase   string `json:"use_case,omitempty"`
	Label     string `json:"label,omitempty"`
}

// ReadPersonas loads personas.json, keyed by persona id.
func ReadPersonas(path string) (map[string]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas: %w", err)
	}
	var personas []Persona
	if err := json.Unmarshal(data, &personas); err != nil {
		return nil, fmt.Errorf("parse personas: %w", err)
	}
	byID := make(map[string]Persona, len(personas))
	for _, p := range personas {
		byID[p.PersonaID] = p
	}
	return byID, nil
}

// ReadContexts loads contexts.jsonl, keyed by context id.
func ReadContexts(path string) (map[string]Context, error) {
	var contexts []Context
	if err := readJSONL(path, &contexts); err != nil {
		return nil, fmt.Errorf("read contexts: %w", err)
	}
	byID := make(map[string]Context, len(contexts))
	for _, c := range contexts {
		byID[c.ContextID] = c
	}
	return byID, nil
}

// ReadSamples loads a samples jsonl file in order.
func ReadSamples(path string) ([]Sample, error) {
	var samples []Sample
	if err := readJSONL(path, &samples); err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	return samples, nil
}

// ReadResults loads a result file written by a previous batch run.
func ReadResults(path string) ([]Result, error) {
	var results []Result
	if err := readJSONL(path, &results); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return results, nil
}

// readJSONL decodes one JSON object per line into out (a pointer to a
// slice). Sample files are hand-edited during annotation, so a line that
// fails strict parsing gets one repair attempt before the load fails.
func readJSONL[T any](path string, out *[]T) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var row T
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			repaired, repairErr := jsonrepair.JSONRepair(line)
			if repairErr != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if err := json.Unmarshal([]byte(repaired), &row); err != nil {
				return fmt.Errorf("line %d after repair: %w", lineNo, err)
			}
		}
		*out = append(*out, row)
	}
	return scanner.Err()
}

// WriteJSONL writes rows as one JSON object per line.
func WriteJSONL[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return w.Flush()
}
