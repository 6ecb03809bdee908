package memory_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/actionpack/pkg/adapters/memory"
	"github.com/aretw0/actionpack/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_KeepsReference(t *testing.T) {
	store := memory.NewStore()
	state := map[string]any{"a": 1}

	require.NoError(t, store.Save(context.Background(), "s", state))
	loaded, err := store.Load(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, reflect.ValueOf(state).Pointer(), reflect.ValueOf(loaded).Pointer())
}
