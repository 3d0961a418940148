package driver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"qawarn/internal/qa"
)

// InputFormat selects how a warnings file is decoded.
type InputFormat uint8

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto InputFormat = iota
	// FormatJSON reads a JSON array, a {"warnings": [...]} document, or a
	// stream of objects (which covers NDJSON).
	FormatJSON
	// FormatYAML reads a YAML sequence or a document with a warnings key.
	// Multiple YAML documents in one file are concatenated.
	FormatYAML
)

// ParseInputFormat converts a flag value to InputFormat.
func ParseInputFormat(s string) (InputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json", "ndjson", "jsonl":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("invalid input format %q (expected auto|json|yaml)", s)
	}
}

// inputExtensions are the files picked up when a directory is given.
var inputExtensions = map[string]InputFormat{
	".json":   FormatJSON,
	".ndjson": FormatJSON,
	".jsonl":  FormatJSON,
	".yaml":   FormatYAML,
	".yml":    FormatYAML,
}

// DetectFormat returns the format for path; unknown extensions are read as JSON.
func DetectFormat(path string) InputFormat {
	if f, ok := inputExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return FormatJSON
}

// Decode turns the content of a warnings file into records. Every record is
// validated; the first invalid one aborts decoding with its position.
func Decode(data []byte, format InputFormat) ([]qa.Record, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

// DecodeWarnings is Decode followed by qa.FromRecord on every record.
func DecodeWarnings(data []byte, format InputFormat) ([]*qa.Warning, error) {
	records, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return toWarnings(records)
}

func toWarnings(records []qa.Record) ([]*qa.Warning, error) {
	out := make([]*qa.Warning, 0, len(records))
	for i, rec := range records {
		w, err := qa.FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("warning #%d: %w", i+1, err)
		}
		out = append(out, w)
	}
	return out, nil
}

type jsonDocument struct {
	Warnings []json.RawMessage `json:"warnings"`
}

func decodeJSON(data []byte) ([]qa.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var raws []json.RawMessage
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", qa.ErrInvalidWarning, err)
		}
		raw = bytes.TrimSpace(raw)
		switch {
		case len(raw) > 0 && raw[0] == '[':
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("%w: %v", qa.ErrInvalidWarning, err)
			}
			raws = append(raws, items...)
		case isWarningsDocument(raw):
			var doc jsonDocument
			if err := json.Unmarshal(raw, &doc); err != nil {
				return nil, fmt.Errorf("%w: %v", qa.ErrInvalidWarning, err)
			}
			raws = append(raws, doc.Warnings...)
		default:
			raws = append(raws, raw)
		}
	}

	records := make([]qa.Record, 0, len(raws))
	for i, raw := range raws {
		var w qa.Warning
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("warning #%d: %w", i+1, err)
		}
		records = append(records, w.Record())
	}
	return records, nil
}

// isWarningsDocument reports whether raw is an object with a "warnings" key.
func isWarningsDocument(raw json.RawMessage) bool {
	if len(raw) == 0 || raw[0] != '{' {
		return false
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return false
	}
	_, ok := top["warnings"]
	return ok
}

type yamlDocument struct {
	Warnings []qa.Record `yaml:"warnings"`
}

func decodeYAML(data []byte) ([]qa.Record, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var records []qa.Record
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", qa.ErrInvalidWarning, err)
		}
		if len(node.Content) == 0 {
			continue
		}
		root := node.Content[0]
		switch root.Kind {
		case yaml.SequenceNode:
			var items []qa.Record
			if err := root.Decode(&items); err != nil {
				return nil, fmt.Errorf("%w: %v", qa.ErrInvalidWarning, err)
			}
			records = append(records, items...)
		case yaml.MappingNode:
			if !hasYAMLKey(root, "warnings") {
				var rec qa.Record
				if err := root.Decode(&rec); err != nil {
					return nil, fmt.Errorf("%w: %v", qa.ErrInvalidWarning, err)
				}
				records = append(records, rec)
				continue
			}
			var doc yamlDocument
			if err := root.Decode(&doc); err != nil {
				return nil, fmt.Errorf("%w: %v", qa.ErrInvalidWarning, err)
			}
			records = append(records, doc.Warnings...)
		default:
			return nil, fmt.Errorf("%w: line %d: expected a list of warnings", qa.ErrInvalidWarning, root.Line)
		}
	}
	// validate eagerly so callers get positions for YAML the same way as JSON
	if _, err := toWarnings(records); err != nil {
		return nil, err
	}
	return records, nil
}

func hasYAMLKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}
