package provider

import (
	"context"
	"strings"
	"time"

	"github.com/hlvm-dev/hqlc/index"
	"github.com/hlvm-dev/hqlc/logger"
)

const defaultFileLimit = 20

// FileProvider completes @-mentions of project files from the index.
type FileProvider struct {
	ids      *IDAllocator
	ix       *index.Indexer
	limit    int
	debounce time.Duration
}

// NewFileProvider creates the file-mention provider over an indexer.
func NewFileProvider(ids *IDAllocator, ix *index.Indexer) *FileProvider {
	return &FileProvider{
		ids:      ids,
		ix:       ix,
		limit:    defaultFileLimit,
		debounce: 80 * time.Millisecond,
	}
}

// SetLimit overrides the result cap.
func (p *FileProvider) SetLimit(limit int) {
	if limit > 0 {
		p.limit = limit
	}
}

// SetDebounce overrides the debounce interval.
func (p *FileProvider) SetDebounce(d time.Duration) {
	p.debounce = d
}

func (p *FileProvider) ID() string              { return "file" }
func (p *FileProvider) Async() bool             { return true }
func (p *FileProvider) Debounce() time.Duration { return p.debounce }
func (p *FileProvider) HelpText() string {
	return "⇥ browse into directory · ⏎ reference file · esc dismiss"
}

// ShouldTrigger fires when the current word is a file mention.
func (p *FileProvider) ShouldTrigger(cc Context) bool {
	return strings.HasPrefix(cc.Word, "@")
}

// Completions searches the index with the text after the @.
func (p *FileProvider) Completions(ctx context.Context, cc Context) (Result, error) {
	query := strings.TrimPrefix(cc.Word, "@")

	entries, err := p.ix.Search(ctx, query, p.limit)
	if err != nil {
		// Degrade to no completions; never block typing.
		logger.Debugw("file search failed", "query", query, "error", err)
		return Result{Anchor: cc.WordStart}, nil
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, p.entryItem(e))
	}

	return Result{Items: items, Anchor: cc.WordStart}, nil
}

// entryItem builds the item for one search hit.
func (p *FileProvider) entryItem(e index.Entry) Item {
	typ := TypeFile
	actions := SelectAction | InsertAction
	detail := "file"
	if e.IsDir {
		typ = TypeDirectory
		actions = DrillAction | SelectAction
		detail = "directory"
	} else if isMediaFile(e.Path) {
		detail = "attachment"
	}

	return Item{
		ID:           p.ids.Next(),
		Label:        e.Path,
		Type:         typ,
		Description:  detail,
		Score:        e.Score,
		MatchIndices: e.Indices,
		Actions:      actions,
		Apply:        fileApply(e.Path, e.IsDir),
		Render:       defaultRender(e.Path, detail, typ, e.Indices),
	}
}
