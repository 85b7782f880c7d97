package file

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

func TestWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", "rules: []")
	other := filepath.Join(dir, "notes.txt")

	var calls atomic.Int32
	w, err := NewWatcher([]string{rules}, 50*time.Millisecond, func() { calls.Add(1) }, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(rules, []byte("rules: []\n"), 0o600))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "a burst of writes is one change")
}

func TestWatcher_CloseStopsRun(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", "rules: []")

	w, err := NewWatcher([]string{rules}, 0, func() {}, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestNewWatcher_Errors(t *testing.T) {
	_, err := NewWatcher(nil, 0, func() {}, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	_, err = NewWatcher([]string{filepath.Join(t.TempDir(), "missing", "rules.yaml")}, 0, func() {}, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFeedUnavailable))
}

//Personal.AI order the ending
