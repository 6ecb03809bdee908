package compiler

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/actionpack/internal/codec"
)

// Step operations.
const (
	OpSet    = "set"
	OpMerge  = "merge"
	OpAppend = "append"
	OpRange  = "range"
)

// Manifest is the declarative form of a set of actions.
type Manifest struct {
	// Middleware steps run before every action dispatched through the
	// session the manifest is loaded into.
	Middleware []Step                `mapstructure:"middleware"`
	Actions    map[string]ActionSpec `mapstructure:"actions"`
}

// ActionSpec describes one action: the steps of its mutation, applied in
// order, and the actions dispatched after it.
type ActionSpec struct {
	Description string `mapstructure:"description"`
	Steps       []Step `mapstructure:"steps"`
	Then        []Then `mapstructure:"then"`
}

// Step applies one operation at Path. The operand is either the literal Value
// or the result of Expr, which sees the node at Path as state.
type Step struct {
	Path   string `mapstructure:"path"`
	Op     string `mapstructure:"op"`
	Value  any    `mapstructure:"value"`
	Expr   string `mapstructure:"expr"`
	Start  int    `mapstructure:"start"`
	Length int    `mapstructure:"length"`
}

// Then chains another action. Props is a literal, Expr computes the props
// from the dispatched action's state and props.
type Then struct {
	Action string `mapstructure:"action"`
	Props  any    `mapstructure:"props"`
	Expr   string `mapstructure:"expr"`
}

// Parser converts raw manifest documents into a Manifest.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data in format f. Unknown fields are rejected.
func (p *Parser) Parse(data []byte, f codec.Format) (*Manifest, error) {
	raw, err := codec.Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &m,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if len(m.Actions) == 0 {
		return nil, fmt.Errorf("manifest declares no actions")
	}
	return &m, nil
}
