package provider

import (
	"context"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// Command is one entry in the static REPL command catalog.
type Command struct {
	// Name includes the leading slash.
	Name        string
	Description string
	// Args are the argument placeholders, quoted as needed in usage.
	Args []string
	// Execute marks commands the host runs immediately on selection.
	Execute bool
}

// Usage renders the command with its argument placeholders.
func (c Command) Usage() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// DefaultCommands is the built-in REPL command catalog.
var DefaultCommands = []Command{
	{Name: "/help", Description: "show available commands"},
	{Name: "/clear", Description: "clear the screen", Execute: true},
	{Name: "/reset", Description: "reset the session", Execute: true},
	{Name: "/load", Description: "load a file into the session", Args: []string{"<path>"}},
	{Name: "/save", Description: "save the session transcript", Args: []string{"<path>"}},
	{Name: "/doc", Description: "show documentation for a symbol", Args: []string{"<symbol>"}},
	{Name: "/memory", Description: "list persisted memories"},
	{Name: "/attach", Description: "attach a file to the next message", Args: []string{"<path>"}},
}

// CommandProvider completes REPL commands from a static catalog.
type CommandProvider struct {
	ids      *IDAllocator
	commands []Command
}

// NewCommandProvider creates the command provider over the default catalog.
func NewCommandProvider(ids *IDAllocator) *CommandProvider {
	return &CommandProvider{ids: ids, commands: DefaultCommands}
}

// NewCommandProviderWithCatalog creates the provider over a custom catalog.
func NewCommandProviderWithCatalog(ids *IDAllocator, commands []Command) *CommandProvider {
	return &CommandProvider{ids: ids, commands: commands}
}

func (p *CommandProvider) ID() string              { return "command" }
func (p *CommandProvider) Async() bool             { return false }
func (p *CommandProvider) Debounce() time.Duration { return 0 }
func (p *CommandProvider) HelpText() string {
	return "⏎ run command · esc dismiss"
}

// ShouldTrigger fires while the command name itself is being typed: the
// buffer starts with a slash and the cursor is still inside the first token.
func (p *CommandProvider) ShouldTrigger(cc Context) bool {
	before := cc.TextBeforeCursor
	if !strings.HasPrefix(before, "/") {
		return false
	}
	tokens, err := shellquote.Split(before)
	if err != nil {
		// Unbalanced quote while typing an argument; the name is done.
		return false
	}
	return len(tokens) == 1 && !strings.HasSuffix(before, " ")
}

// Completions filters the catalog by name prefix.
func (p *CommandProvider) Completions(_ context.Context, cc Context) (Result, error) {
	prefix := strings.TrimSpace(cc.TextBeforeCursor)

	var items []Item
	for _, cmd := range p.commands {
		if !strings.HasPrefix(cmd.Name, prefix) {
			continue
		}

		apply := insertApply(cmd.Name, true)
		if cmd.Execute {
			apply = executeApply(cmd.Name)
		}

		items = append(items, Item{
			ID:          p.ids.Next(),
			Label:       cmd.Name,
			Type:        TypeCommand,
			Description: cmd.Description,
			Actions:     SelectAction | InsertAction,
			Apply:       apply,
			Render:      defaultRender(cmd.Usage(), cmd.Description, TypeCommand, nil),
		})
	}

	// Catalog order is already curated; prefix filtering preserves it.
	return Result{Items: items, Anchor: 0}, nil
}

// executeApply inserts the command and asks the host to run it.
func executeApply(name string) ApplyFunc {
	return func(_ Action, in ApplyInput) ApplyResult {
		text, cursor := replaceSpan(in, name+" ")
		return ApplyResult{
			Text:          text,
			Cursor:        cursor,
			CloseDropdown: true,
			Effect:        Effect{Kind: EffectExecute},
		}
	}
}
