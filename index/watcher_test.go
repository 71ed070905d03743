package index

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherInvalidatesOnChange(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.hql")

	ix := New(root, WithTTL(time.Hour))
	_, err := ix.Get(context.Background(), false)
	require.NoError(t, err)

	w, err := NewWatcher(ix)
	require.NoError(t, err)
	defer w.Close()

	writeTree(t, root, "b.hql")

	// The watcher debounces before invalidating; the next Get rebuilds.
	require.Eventually(t, func() bool {
		snap, err := ix.Get(context.Background(), false)
		if err != nil {
			return false
		}
		return len(snap.Files) == 2
	}, 5*time.Second, 50*time.Millisecond)
}
