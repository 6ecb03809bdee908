package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeProps decodes loosely typed props (usually map[string]any) into out,
// which must be a pointer. Fields are matched by their mapstructure tag and
// scalar types are converted weakly, so "3" and 3.0 both decode into an int.
func DecodeProps(props any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create props decoder: %w", err)
	}
	if err := dec.Decode(props); err != nil {
		return fmt.Errorf("failed to decode props: %w", err)
	}
	return nil
}
