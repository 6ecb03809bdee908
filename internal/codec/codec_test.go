package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal(t *testing.T) {
	v, err := Unmarshal([]byte("count: 10\nitems: [a, b]\n1: one\n"), YAML)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": 10, "items": []any{"a", "b"}, "1": "one"}, v)

	v, err = Unmarshal([]byte(`{"count": 10}`), JSON)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": 10.0}, v)

	v, err = Unmarshal([]byte("  \n"), YAML)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = Unmarshal([]byte("{"), JSON)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	in := []any{map[any]any{1: map[any]any{true: "x"}}}
	assert.Equal(t, []any{map[string]any{"1": map[string]any{"true": "x"}}}, Normalize(in))
}

func TestMarshal_RoundTrip(t *testing.T) {
	state := map[string]any{"a": []any{"x", "y"}, "b": map[string]any{"c": true}}

	for _, f := range []Format{YAML, JSON} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Marshal(state, f)
			require.NoError(t, err)
			back, err := Unmarshal(data, f)
			require.NoError(t, err)
			assert.Equal(t, state, back)
		})
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, JSON, FormatOf("state.json"))
	assert.Equal(t, YAML, FormatOf("state.yml"))
	assert.Equal(t, YAML, FormatOf("state"))
	_, err := ParseFormat("toml")
	assert.Error(t, err)
	assert.Equal(t, ".json", JSON.Ext())
}
