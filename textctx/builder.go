package textctx

import "github.com/hlvm-dev/hqlc/provider"

// Tables are the side tables the host supplies from its language registry
// and session store.
type Tables struct {
	Bindings    map[string]string
	Signatures  map[string][]string
	Docstrings  map[string]string
	MemoryNames []string
	Keywords    map[string]bool
	Operators   map[string]bool
	Macros      map[string]bool
	Builtins    map[string]bool
}

// Builder composes extraction with the side tables into the full context.
type Builder struct {
	tables Tables
}

// NewBuilder creates a context builder over the given side tables.
func NewBuilder(tables Tables) *Builder {
	return &Builder{tables: tables}
}

// SetTables replaces the side tables (e.g. after a registry reload).
func (b *Builder) SetTables(tables Tables) {
	b.tables = tables
}

// Build creates the immutable per-keystroke snapshot. TextBeforeCursor is
// recomputed on every call.
func (b *Builder) Build(text string, cursor int) provider.Context {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}

	word, start := Extract(text, cursor)

	return provider.Context{
		Text:             text,
		Cursor:           cursor,
		TextBeforeCursor: text[:cursor],
		Word:             word,
		WordStart:        start,
		Bindings:         b.tables.Bindings,
		Signatures:       b.tables.Signatures,
		Docstrings:       b.tables.Docstrings,
		MemoryNames:      b.tables.MemoryNames,
		Keywords:         b.tables.Keywords,
		Operators:        b.tables.Operators,
		Macros:           b.tables.Macros,
		Builtins:         b.tables.Builtins,
		InsideString:     insideString(text, cursor),
		EnclosingHead:    enclosingHead(text, cursor),
	}
}
