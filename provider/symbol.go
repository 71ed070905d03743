package provider

import (
	"context"
	"strings"
	"time"

	"github.com/hlvm-dev/hqlc/match"
)

const (
	// bindingBoost lifts user bindings above same-named registry symbols.
	bindingBoost = 2000

	defaultTypedLimit  = 8
	defaultBrowseLimit = 30
)

// SymbolProvider completes identifiers: user bindings merged with the
// language registry's known symbols, classified via the membership sets the
// host supplies on the context.
type SymbolProvider struct {
	ids         *IDAllocator
	typedLimit  int
	browseLimit int
}

// NewSymbolProvider creates the identifier provider.
func NewSymbolProvider(ids *IDAllocator) *SymbolProvider {
	return &SymbolProvider{
		ids:         ids,
		typedLimit:  defaultTypedLimit,
		browseLimit: defaultBrowseLimit,
	}
}

// SetLimits overrides the result caps for typed and empty-prefix queries.
func (p *SymbolProvider) SetLimits(typed, browse int) {
	if typed > 0 {
		p.typedLimit = typed
	}
	if browse > 0 {
		p.browseLimit = browse
	}
}

func (p *SymbolProvider) ID() string              { return "symbol" }
func (p *SymbolProvider) Async() bool             { return false }
func (p *SymbolProvider) Debounce() time.Duration { return 0 }
func (p *SymbolProvider) HelpText() string {
	return "↑↓ navigate · ⏎ insert · esc dismiss"
}

// ShouldTrigger accepts any identifier context. The registry orders this
// provider last, so file mentions and slash commands win first.
func (p *SymbolProvider) ShouldTrigger(cc Context) bool {
	return !cc.InsideString
}

// Completions merges bindings and registry symbols, ranks, and truncates.
func (p *SymbolProvider) Completions(_ context.Context, cc Context) (Result, error) {
	if names := memoryArgumentNames(cc); names != nil {
		return p.memoryCompletions(cc, names), nil
	}

	var items []Item
	seen := make(map[string]bool)

	// User bindings first; they shadow same-named registry symbols.
	for name, preview := range cc.Bindings {
		item, ok := p.symbolItem(cc, name, TypeVariable, preview, bindingBoost)
		if !ok {
			continue
		}
		seen[name] = true
		items = append(items, item)
	}

	add := func(set map[string]bool, typ ItemType) {
		for name := range set {
			if seen[name] {
				continue
			}
			item, ok := p.symbolItem(cc, name, typ, "", 0)
			if !ok {
				continue
			}
			seen[name] = true
			items = append(items, item)
		}
	}
	add(cc.Keywords, TypeKeyword)
	add(cc.Macros, TypeMacro)
	add(cc.Operators, TypeOperator)
	add(cc.Builtins, TypeFunction)

	ranked := Rank(items)

	limit := p.browseLimit
	if cc.Word != "" {
		limit = p.typedLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return Result{Items: ranked, Anchor: cc.WordStart}, nil
}

// symbolItem builds one identifier item, or reports false when the typed
// word does not match the name.
func (p *SymbolProvider) symbolItem(cc Context, name string, typ ItemType, preview string, boost int) (Item, bool) {
	score := boost
	var indices []int

	if cc.Word != "" {
		r, ok := match.Match(cc.Word, name)
		if !ok {
			return Item{}, false
		}
		score += r.Score
		indices = r.Indices
	}

	desc := preview
	if desc == "" {
		if doc, ok := cc.Docstrings[name]; ok {
			desc = firstLine(doc)
		}
	}

	item := Item{
		ID:           p.ids.Next(),
		Label:        name,
		Type:         typ,
		Description:  desc,
		Score:        score,
		MatchIndices: indices,
		Actions:      SelectAction | InsertAction,
	}

	if params, ok := cc.Signatures[name]; ok && len(params) > 0 {
		item.Apply = callFormApply(name, params)
	} else {
		item.Apply = insertApply(name, true)
	}
	item.Render = defaultRender(name, desc, typ, indices)

	return item, true
}

// memoryCompletions serves persisted-memory names as arguments inside
// recall/forget forms.
func (p *SymbolProvider) memoryCompletions(cc Context, names []string) Result {
	var items []Item
	for _, name := range names {
		score := 0
		var indices []int
		if cc.Word != "" {
			r, ok := match.Match(cc.Word, name)
			if !ok {
				continue
			}
			score = r.Score
			indices = r.Indices
		}
		items = append(items, Item{
			ID:           p.ids.Next(),
			Label:        name,
			Type:         TypeVariable,
			Description:  "persisted memory",
			Score:        score,
			MatchIndices: indices,
			Actions:      SelectAction | InsertAction,
			Apply:        insertApply(name, true),
			Render:       defaultRender(name, "persisted memory", TypeVariable, indices),
		})
	}

	ranked := Rank(items)
	if len(ranked) > p.browseLimit {
		ranked = ranked[:p.browseLimit]
	}
	return Result{Items: ranked, Anchor: cc.WordStart}
}

// memoryArgumentNames returns the memory name set when the cursor sits in
// the argument position of a memory form, nil otherwise.
func memoryArgumentNames(cc Context) []string {
	switch cc.EnclosingHead {
	case "recall", "forget":
	default:
		return nil
	}
	if len(cc.MemoryNames) == 0 {
		return nil
	}
	// Only the argument position completes memory names, not the head
	// itself.
	if cc.Word == cc.EnclosingHead {
		return nil
	}
	return cc.MemoryNames
}

// firstLine returns the first line of a docstring.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
