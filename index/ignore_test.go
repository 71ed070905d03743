package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoredDirOnlyPattern(t *testing.T) {
	ir := ParseIgnorePatterns([]string{"build/"})

	assert.True(t, ir.Ignored("build", true))
	assert.True(t, ir.Ignored("build/out.js", false))
	assert.True(t, ir.Ignored("sub/build", true))
	assert.False(t, ir.Ignored("build", false), "dir-only pattern must not match a plain file")
	assert.False(t, ir.Ignored("my-build", true), "component match, not substring")
	assert.False(t, ir.Ignored("my-build/x.js", false))
}

func TestIgnoredGlobPattern(t *testing.T) {
	ir := ParseIgnorePatterns([]string{"*.log"})

	assert.True(t, ir.Ignored("debug.log", false))
	assert.True(t, ir.Ignored("logs/old/debug.log", false))
	assert.False(t, ir.Ignored("debug.log.txt", false))
	assert.False(t, ir.Ignored("changelog", false))
}

func TestIgnoredNegationLastMatchWins(t *testing.T) {
	ir := ParseIgnorePatterns([]string{"*.log", "!keep.log"})

	assert.True(t, ir.Ignored("debug.log", false))
	assert.False(t, ir.Ignored("keep.log", false))
	assert.False(t, ir.Ignored("nested/keep.log", false))
}

func TestIgnoredAnchoredPattern(t *testing.T) {
	ir := ParseIgnorePatterns([]string{"/dist"})

	assert.True(t, ir.Ignored("dist", true))
	assert.True(t, ir.Ignored("dist/bundle.js", false))
	assert.False(t, ir.Ignored("packages/dist", true))
}

func TestIgnoredDoubleStar(t *testing.T) {
	ir := ParseIgnorePatterns([]string{"docs/**/draft"})

	assert.True(t, ir.Ignored("docs/a/draft", false))
	assert.True(t, ir.Ignored("docs/a/b/draft", false))
	assert.False(t, ir.Ignored("other/a/draft", false))
}

func TestIgnoredQuestionMark(t *testing.T) {
	ir := ParseIgnorePatterns([]string{"v?.txt"})

	assert.True(t, ir.Ignored("v1.txt", false))
	assert.True(t, ir.Ignored("sub/v2.txt", false))
	assert.False(t, ir.Ignored("v12.txt", false))
	assert.False(t, ir.Ignored("v/.txt", false))
}

func TestIgnoredCommentsAndBlanksSkipped(t *testing.T) {
	ir := ParseIgnorePatterns([]string{"# comment", "", "   ", "*.tmp"})

	assert.True(t, ir.Ignored("a.tmp", false))
	assert.False(t, ir.Ignored("# comment", false))
}

func TestLoadIgnoreFileMissing(t *testing.T) {
	ir := LoadIgnoreFile(filepath.Join(t.TempDir(), "nope", ".gitignore"))
	assert.True(t, ir.Empty())
	assert.False(t, ir.Ignored("anything", false))
}

func TestLoadIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	content := "# generated\nbuild/\n*.log\n!keep.log\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ir := LoadIgnoreFile(path)
	assert.False(t, ir.Empty())
	assert.True(t, ir.Ignored("build/a.js", false))
	assert.True(t, ir.Ignored("x.log", false))
	assert.False(t, ir.Ignored("keep.log", false))
	assert.False(t, ir.Ignored("src/main.hql", false))
}
