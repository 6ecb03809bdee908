// Package codec reads and writes state trees as YAML or JSON.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialisation format for state trees.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// FormatOf guesses the format from a file name, defaulting to YAML.
func FormatOf(name string) Format {
	if f, err := ParseFormat(filepath.Ext(name)); err == nil {
		return f
	}
	return YAML
}

// Ext returns the file extension for f, with the dot.
func (f Format) Ext() string {
	if f == JSON {
		return ".json"
	}
	return ".yaml"
}

// Unmarshal decodes data into a state tree of map[string]any, []any and leaves.
// Empty input decodes to nil.
func Unmarshal(data []byte, f Format) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var v any
	switch f {
	case JSON:
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	}
	return Normalize(v), nil
}

// Marshal encodes a state tree.
func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case JSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// Normalize converts map[any]any nodes, as produced by YAML documents with
// non-string keys, into map[string]any so the composable algebra can address them.
func Normalize(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			node[k] = Normalize(child)
		}
		return node
	case map[any]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[fmt.Sprint(k)] = Normalize(child)
		}
		return out
	case []any:
		for i, child := range node {
			node[i] = Normalize(child)
		}
		return node
	default:
		return v
	}
}
