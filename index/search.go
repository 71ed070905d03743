package index

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hlvm-dev/hqlc/match"
)

// dirBoost is a flat tie-break lifting directories over files of equal
// match quality.
const dirBoost = 20

// Entry is one search hit.
type Entry struct {
	// Path is relative to the root for indexed hits, absolute for
	// absolute and home-relative queries. Directories keep a trailing
	// separator.
	Path    string
	IsDir   bool
	Score   int
	Indices []int
}

// Search matches query against the cached listing. Absolute and
// home-relative queries bypass the index and hit the filesystem directly.
func (ix *Indexer) Search(ctx context.Context, query string, maxResults int) ([]Entry, error) {
	if maxResults <= 0 {
		maxResults = 20
	}

	if strings.HasPrefix(query, "/") || strings.HasPrefix(query, "~") {
		return searchDirect(query, maxResults), nil
	}

	snap, err := ix.Get(ctx, false)
	if err != nil {
		return nil, err
	}

	if query == "" {
		return listAll(snap, maxResults), nil
	}

	// One collector across dirs then files so the directory boost
	// participates in eviction decisions.
	c := match.NewCollector(maxResults)
	for _, dir := range snap.Dirs {
		if r, ok := match.Match(query, dir); ok {
			c.Add(match.Candidate{
				Item:    match.Item{Text: dir, Data: true},
				Score:   r.Score + dirBoost,
				Indices: r.Indices,
			})
		}
	}
	for _, file := range snap.Files {
		if r, ok := match.Match(query, file); ok {
			c.Add(match.Candidate{
				Item:    match.Item{Text: file, Data: false},
				Score:   r.Score,
				Indices: r.Indices,
			})
		}
	}

	results := c.Results()
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{
			Path:    r.Text,
			IsDir:   r.Data.(bool),
			Score:   r.Score,
			Indices: r.Indices,
		}
	}
	return entries, nil
}

// listAll returns directories then files for empty-query browsing.
func listAll(snap *Snapshot, maxResults int) []Entry {
	entries := make([]Entry, 0, maxResults)
	for _, dir := range snap.Dirs {
		if len(entries) >= maxResults {
			return entries
		}
		entries = append(entries, Entry{Path: dir, IsDir: true})
	}
	for _, file := range snap.Files {
		if len(entries) >= maxResults {
			return entries
		}
		entries = append(entries, Entry{Path: file, IsDir: false})
	}
	return entries
}

// searchDirect resolves absolute and home-relative queries against the
// filesystem: an existing directory lists its children, otherwise the
// parent directory is listed and substring-filtered by the partial name.
// Failures yield no entries, never errors.
func searchDirect(query string, maxResults int) []Entry {
	path := expandHome(query)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return listDir(path, "", maxResults)
	}

	dir := filepath.Dir(path)
	partial := filepath.Base(path)
	if strings.HasSuffix(path, "/") {
		dir = strings.TrimSuffix(path, "/")
		partial = ""
	}
	return listDir(dir, partial, maxResults)
}

// listDir flat-lists a directory, filtering names by a case-insensitive
// substring.
func listDir(dir, partial string, maxResults int) []Entry {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	partial = strings.ToLower(partial)
	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if partial != "" && !strings.Contains(strings.ToLower(name), partial) {
			continue
		}
		full := filepath.Join(dir, name)
		if de.IsDir() {
			entries = append(entries, Entry{Path: full + "/", IsDir: true})
		} else {
			entries = append(entries, Entry{Path: full, IsDir: false})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	if len(entries) > maxResults {
		entries = entries[:maxResults]
	}
	return entries
}

// expandHome resolves a leading ~ against the user's home directory.
func expandHome(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
