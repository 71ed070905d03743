package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlvm-dev/hqlc/index"
)

func newFileProvider(t *testing.T, entries ...string) *FileProvider {
	t.Helper()
	root := t.TempDir()
	for _, e := range entries {
		full := filepath.Join(root, filepath.FromSlash(e))
		if len(e) > 0 && e[len(e)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
	return NewFileProvider(NewIDAllocator(), index.New(root))
}

func TestFileProviderTrigger(t *testing.T) {
	p := newFileProvider(t)

	assert.True(t, p.ShouldTrigger(Context{Word: "@"}))
	assert.True(t, p.ShouldTrigger(Context{Word: "@src/ma"}))
	assert.False(t, p.ShouldTrigger(Context{Word: "src"}))
	assert.False(t, p.ShouldTrigger(Context{Word: ""}))
}

func TestFileProviderAsyncContract(t *testing.T) {
	p := newFileProvider(t)
	assert.True(t, p.Async())
	assert.Positive(t, p.Debounce())

	p.SetDebounce(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, p.Debounce())
}

func TestFileProviderCompletions(t *testing.T) {
	p := newFileProvider(t, "src/file.ts", "src/first.ts", "src/other.ts")
	cc := Context{Word: "@src/fi", WordStart: 4}

	res, err := p.Completions(context.Background(), cc)
	require.NoError(t, err)

	labels := labelsOf(res.Items)
	assert.Contains(t, labels, "src/file.ts")
	assert.Contains(t, labels, "src/first.ts")
	assert.NotContains(t, labels, "src/other.ts")
	assert.Equal(t, 4, res.Anchor)
}

func TestFileProviderDirectoryItem(t *testing.T) {
	p := newFileProvider(t, "src/main.hql")
	cc := Context{Word: "@src", WordStart: 0}

	res, err := p.Completions(context.Background(), cc)
	require.NoError(t, err)
	require.NotEmpty(t, res.Items)

	dir := res.Items[0]
	assert.Equal(t, "src/", dir.Label)
	assert.Equal(t, TypeDirectory, dir.Type)
	assert.Equal(t, "directory", dir.Description)
	assert.True(t, dir.Actions.Has(ActionDrill))
	assert.True(t, dir.Actions.Has(ActionSelect))
	assert.False(t, dir.Actions.Has(ActionInsert))

	out := dir.Apply(ActionDrill, ApplyInput{Text: "@src", Cursor: 4, Anchor: 0})
	assert.Equal(t, "@src/", out.Text)
	assert.False(t, out.CloseDropdown)
}

func TestFileProviderMediaItem(t *testing.T) {
	p := newFileProvider(t, "img/logo.png")
	cc := Context{Word: "@logo", WordStart: 0}

	res, err := p.Completions(context.Background(), cc)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	item := res.Items[0]
	assert.Equal(t, TypeFile, item.Type)
	assert.Equal(t, "attachment", item.Description)

	out := item.Apply(ActionSelect, ApplyInput{Text: "@logo", Cursor: 5, Anchor: 0})
	assert.Equal(t, EffectAddAttachment, out.Effect.Kind)
	assert.Equal(t, "img/logo.png", out.Effect.Path)
}

func TestFileProviderEmptyQueryBrowses(t *testing.T) {
	p := newFileProvider(t, "src/a.hql", "b.hql")
	cc := Context{Word: "@", WordStart: 0}

	res, err := p.Completions(context.Background(), cc)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/", "b.hql", "src/a.hql"}, labelsOf(res.Items))
}

func TestFileProviderRespectsLimit(t *testing.T) {
	p := newFileProvider(t, "a1.hql", "a2.hql", "a3.hql")
	p.SetLimit(2)
	cc := Context{Word: "@a", WordStart: 0}

	res, err := p.Completions(context.Background(), cc)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestFileProviderMissingRootDegrades(t *testing.T) {
	p := NewFileProvider(NewIDAllocator(), index.New(filepath.Join(t.TempDir(), "gone")))
	cc := Context{Word: "@x", WordStart: 0}

	res, err := p.Completions(context.Background(), cc)
	require.NoError(t, err, "index failures must not surface to the caller")
	assert.Empty(t, res.Items)
}
