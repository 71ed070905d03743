// Package provider defines the completion item model, the apply protocol,
// and the pluggable candidate sources bound to trigger conditions.
package provider

import (
	"context"
	"time"
)

// ItemType classifies a completion item. Declaration order is the ranking
// priority: earlier types sort ahead when scores tie.
type ItemType int

const (
	TypeKeyword ItemType = iota
	TypeMacro
	TypeFunction
	TypeOperator
	TypeVariable
	TypeCommand
	TypeDirectory
	TypeFile
)

// String returns the lowercase name of the type.
func (t ItemType) String() string {
	switch t {
	case TypeKeyword:
		return "keyword"
	case TypeMacro:
		return "macro"
	case TypeFunction:
		return "function"
	case TypeOperator:
		return "operator"
	case TypeVariable:
		return "variable"
	case TypeCommand:
		return "command"
	case TypeDirectory:
		return "directory"
	case TypeFile:
		return "file"
	default:
		return "unknown"
	}
}

// Action is a way of committing an item.
type Action int

const (
	// ActionSelect commits the item and closes the dropdown.
	ActionSelect Action = iota
	// ActionDrill narrows or advances context without closing.
	ActionDrill
	// ActionInsert inserts the item text verbatim.
	ActionInsert
)

// ActionSet is the capability set of an item.
type ActionSet uint8

const (
	SelectAction ActionSet = 1 << iota
	DrillAction
	InsertAction
)

// Has reports whether the set contains the action.
func (s ActionSet) Has(a Action) bool {
	switch a {
	case ActionSelect:
		return s&SelectAction != 0
	case ActionDrill:
		return s&DrillAction != 0
	case ActionInsert:
		return s&InsertAction != 0
	default:
		return false
	}
}

// EffectKind tags the side effect a commit asks the host to perform.
// Hosts must switch exhaustively over this closed set.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectExecute
	EffectEnterPlaceholderMode
	EffectAddAttachment
)

// Effect is the optional side effect of applying an item.
type Effect struct {
	Kind EffectKind
	// Params and StartPos accompany EffectEnterPlaceholderMode: the
	// parameter names to tab through and the offset of the first one.
	Params   []string
	StartPos int
	// Path accompanies EffectAddAttachment.
	Path string
}

// ApplyInput is the buffer state an apply function transforms.
type ApplyInput struct {
	Text   string
	Cursor int
	// Anchor marks the start of the span the item replaces;
	// Text[Anchor:Cursor] is exactly what gets substituted.
	Anchor int
}

// ApplyResult is the edit an apply function produces. Apply functions are
// pure: same input, same result, no hidden state.
type ApplyResult struct {
	Text          string
	Cursor        int
	CloseDropdown bool
	Effect        Effect
}

// ApplyFunc turns a commit action and the current buffer into an edit.
type ApplyFunc func(action Action, in ApplyInput) ApplyResult

// RenderSpec is what the render layer paints for one row.
type RenderSpec struct {
	Label        string
	Detail       string
	TypeName     string
	MatchIndices []int
}

// RenderFunc produces the row spec for an item.
type RenderFunc func() RenderSpec

// Item is one ranked, actionable completion candidate. Items are ephemeral:
// regenerated per query and discarded on the next query or close.
type Item struct {
	// ID is unique within a session.
	ID          string
	Label       string
	Type        ItemType
	Description string
	// Score is comparable only against items from the same query.
	Score        int
	MatchIndices []int
	Actions      ActionSet
	Apply        ApplyFunc
	Render       RenderFunc
}

// Context is the immutable per-keystroke snapshot providers inspect.
type Context struct {
	Text             string
	Cursor           int
	TextBeforeCursor string
	Word             string
	WordStart        int

	// Side tables supplied by the host's language registry and session.
	Bindings    map[string]string
	Signatures  map[string][]string
	Docstrings  map[string]string
	MemoryNames []string
	Keywords    map[string]bool
	Operators   map[string]bool
	Macros      map[string]bool
	Builtins    map[string]bool

	InsideString  bool
	EnclosingHead string
}

// Result is one provider response for one query.
type Result struct {
	Items []Item
	// Anchor is the buffer offset where the replaced span starts.
	Anchor int
	// Loading marks a partial response with more to come.
	Loading bool
}

// Provider is a pluggable candidate source bound to a trigger condition.
type Provider interface {
	// ID identifies the provider in dropdown state and logs.
	ID() string
	// ShouldTrigger reports whether this provider handles the context.
	ShouldTrigger(cc Context) bool
	// Completions returns ranked, actionable items for the context.
	Completions(ctx context.Context, cc Context) (Result, error)
	// Async reports whether Completions performs I/O and should be
	// debounced and dispatched off the keystroke path.
	Async() bool
	// Debounce is the delay before an async provider issues I/O.
	Debounce() time.Duration
	// HelpText is a one-line hint shown alongside the dropdown.
	HelpText() string
}
