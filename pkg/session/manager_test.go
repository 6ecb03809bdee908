package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/actionpack/pkg/adapters/memory"
	"github.com/aretw0/actionpack/pkg/domain"
)

// SlowStore simulates latency to provoke lost updates if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Load(ctx context.Context, sessionID string) (any, error) {
	time.Sleep(time.Millisecond)
	return s.Store.Load(ctx, sessionID)
}

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	for i := range 1000 {
		sid := fmt.Sprintf("session-%d", i)
		require.NoError(t, mgr.Save(ctx, sid, i))
		require.NoError(t, mgr.Delete(ctx, sid))
	}

	assert.Empty(t, mgr.locks, "idle locks must be released")
}

func TestManager_Update(t *testing.T) {
	mgr := NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := mgr.Update(ctx, "counter", func(state any) (any, error) {
				n, _ := state.(int)
				return n + 1, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := mgr.Load(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, 20, state)
	assert.Empty(t, mgr.locks)
}

func TestManager_UpdateFailure(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	require.NoError(t, mgr.Save(ctx, "s", "before"))

	boom := errors.New("boom")
	err := mgr.Update(ctx, "s", func(any) (any, error) { return "after", boom })
	assert.ErrorIs(t, err, boom)

	state, _ := mgr.Load(ctx, "s")
	assert.Equal(t, "before", state)
}

func TestManager_Load(t *testing.T) {
	store := memory.NewStore()
	mgr := NewManager(store)
	ctx := context.Background()

	state, err := mgr.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, state)

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = mgr.Load(canceled, "missing")
	assert.ErrorIs(t, err, context.Canceled)

	assert.Same(t, store, mgr.Store())
	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
