// Package index builds and caches the filesystem listing behind file
// completion. The snapshot is the only long-lived shared mutable resource
// in the engine: it is read-mostly and replaced wholesale on invalidation,
// never partially mutated.
package index

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hlvm-dev/hqlc/errors"
	"github.com/hlvm-dev/hqlc/logger"
)

const defaultTTL = 30 * time.Second

// maxDepth bounds the directory walk.
const defaultMaxDepth = 10

// skipDirs are pruned without descent.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "dist": true, "build": true,
	"target": true, "vendor": true, "__pycache__": true, ".cache": true,
}

// skipFileNames are omitted by exact name.
var skipFileNames = map[string]bool{
	".DS_Store": true, "Thumbs.db": true,
	"package-lock.json": true, "yarn.lock": true,
}

// skipFileSuffixes are omitted by suffix.
var skipFileSuffixes = []string{".pyc", ".o", ".class", ".swp"}

// allowedDotfiles are the dotfile exceptions kept in the index.
var allowedDotfiles = map[string]bool{".gitignore": true}

// Snapshot is one immutable build of the index. Files and Dirs hold sorted
// relative paths; directories keep a trailing separator.
type Snapshot struct {
	Files   []string
	Dirs    []string
	BuiltAt time.Time
}

// Indexer owns the snapshot cache for one working root.
type Indexer struct {
	root     string
	ttl      time.Duration
	maxDepth int
	extra    []string // extra skip directory names

	mu   sync.Mutex
	snap *Snapshot

	// forceLimiter throttles forced rebuilds; a throttled force serves
	// the cached snapshot instead.
	forceLimiter *rate.Limiter
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithTTL overrides the snapshot lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(ix *Indexer) { ix.ttl = ttl }
}

// WithMaxDepth overrides the walk depth bound.
func WithMaxDepth(depth int) Option {
	return func(ix *Indexer) { ix.maxDepth = depth }
}

// WithExtraSkipDirs prunes additional directory names.
func WithExtraSkipDirs(names []string) Option {
	return func(ix *Indexer) { ix.extra = names }
}

// New creates an indexer rooted at the given directory.
func New(root string, opts ...Option) *Indexer {
	ix := &Indexer{
		root:         root,
		ttl:          defaultTTL,
		maxDepth:     defaultMaxDepth,
		forceLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Root returns the indexed working root.
func (ix *Indexer) Root() string { return ix.root }

// Get returns the current snapshot, rebuilding on absence, TTL expiry, or
// force. Forced rebuilds are rate limited; a throttled force serves the
// cached snapshot.
func (ix *Indexer) Get(ctx context.Context, force bool) (*Snapshot, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.snap != nil {
		fresh := time.Since(ix.snap.BuiltAt) < ix.ttl
		if !force && fresh {
			return ix.snap, nil
		}
		if force && !ix.forceLimiter.Allow() {
			return ix.snap, nil
		}
	}

	snap, err := ix.build(ctx)
	if err != nil {
		if ix.snap != nil {
			// A stale snapshot beats none.
			logger.Warnw("index rebuild failed, serving stale snapshot",
				"root", ix.root, "error", err)
			return ix.snap, nil
		}
		return nil, err
	}

	ix.snap = snap
	return ix.snap, nil
}

// Invalidate drops the cached snapshot; the next Get rebuilds.
func (ix *Indexer) Invalidate() {
	ix.mu.Lock()
	ix.snap = nil
	ix.mu.Unlock()
	logger.Debugw("index invalidated", "root", ix.root)
}

// build walks the root and produces a fresh snapshot. Unreadable subtrees
// are skipped: a partial index beats none.
func (ix *Indexer) build(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	ignore := LoadIgnoreFile(filepath.Join(ix.root, ".gitignore"))

	var files, dirs []string

	err := filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			// Permission denied or racing deletion: skip the subtree.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == ix.root {
			return nil
		}

		rel, err := filepath.Rel(ix.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if skipDirs[name] || ix.extraSkip(name) || isHidden(name) {
				return filepath.SkipDir
			}
			if strings.Count(rel, "/")+1 >= ix.maxDepth {
				return filepath.SkipDir
			}
			if ignore.Ignored(rel, true) {
				return filepath.SkipDir
			}
			dirs = append(dirs, rel+"/")
			return nil
		}

		if isHidden(name) && !allowedDotfiles[name] {
			return nil
		}
		if skipFileNames[name] || hasSkippedSuffix(name) {
			return nil
		}
		if ignore.Ignored(rel, false) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.WrapIndexUnavailable(err, "walking "+ix.root)
	}

	sort.Strings(files)
	sort.Strings(dirs)

	logger.Debugw("index built",
		"root", ix.root,
		"files", len(files),
		"dirs", len(dirs),
		"time_us", time.Since(start).Microseconds(),
	)

	return &Snapshot{Files: files, Dirs: dirs, BuiltAt: time.Now()}, nil
}

func (ix *Indexer) extraSkip(name string) bool {
	for _, n := range ix.extra {
		if n == name {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func hasSkippedSuffix(name string) bool {
	for _, suffix := range skipFileSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
