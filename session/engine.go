// Package session runs the completion pipeline: per-keystroke context
// extraction, provider selection, debounced async queries, and the
// dropdown state machine, under a last-issued-wins ordering guarantee.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hlvm-dev/hqlc/dropdown"
	"github.com/hlvm-dev/hqlc/logger"
	"github.com/hlvm-dev/hqlc/provider"
	"github.com/hlvm-dev/hqlc/textctx"
)

const defaultVisibleRows = 10

// Engine is the host-facing completion engine. It has exactly one writer
// (the host event loop calling Update/HandleKey); async provider results
// re-enter through the sequence guard.
type Engine struct {
	builder  *textctx.Builder
	registry *provider.Registry

	visibleRows int
	onChange    func(dropdown.State)

	// seq is the monotonic query counter: a result is applied only if
	// its sequence still equals the latest issued.
	seq atomic.Uint64

	mu            sync.Mutex
	state         dropdown.State
	lastText      string
	lastCursor    int
	sessionID     string
	helpText      string
	debounceTimer *time.Timer
	cancelQuery   context.CancelFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithVisibleRows sets the fixed dropdown row count.
func WithVisibleRows(rows int) Option {
	return func(e *Engine) {
		if rows > 0 {
			e.visibleRows = rows
		}
	}
}

// WithOnChange registers a callback invoked after every state change.
// The callback receives a state copy and must not call back into the
// engine synchronously from another goroutine.
func WithOnChange(fn func(dropdown.State)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// NewEngine creates an engine over a context builder and a provider
// registry.
func NewEngine(builder *textctx.Builder, registry *provider.Registry, opts ...Option) *Engine {
	e := &Engine{
		builder:     builder,
		registry:    registry,
		visibleRows: defaultVisibleRows,
		state:       dropdown.Initial(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current dropdown state.
func (e *Engine) State() dropdown.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// HelpText returns the active provider's hint line, if a session is open.
func (e *Engine) HelpText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Open {
		return ""
	}
	return e.helpText
}

// Window returns the visible slice of the current item list.
func (e *Engine) Window() (start, end int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return dropdown.Window(e.state.SelectedIndex, len(e.state.Items), e.visibleRows)
}

// VisibleRows returns the fixed dropdown row count.
func (e *Engine) VisibleRows() int { return e.visibleRows }

// Update feeds one keystroke's buffer state into the engine. Every call
// supersedes any in-flight query.
func (e *Engine) Update(text string, cursor int) {
	cc := e.builder.Build(text, cursor)
	seq := e.seq.Add(1)

	e.mu.Lock()
	e.lastText = text
	e.lastCursor = cursor
	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
		e.debounceTimer = nil
	}
	if e.cancelQuery != nil {
		e.cancelQuery()
		e.cancelQuery = nil
	}

	p, ok := e.registry.Match(cc)
	if !ok {
		e.reduceLocked(dropdown.CloseEvent{})
		e.notifyAndUnlock()
		return
	}
	e.helpText = p.HelpText()

	if !p.Async() {
		e.mu.Unlock()
		res, err := p.Completions(context.Background(), cc)
		if err != nil {
			logger.Debugw("provider failed", "provider", p.ID(), "error", err)
			res = provider.Result{Anchor: cc.WordStart}
		}
		e.applyResult(seq, p, res)
		return
	}

	// Async provider: debounce, then query off the keystroke path.
	ctx, cancel := context.WithCancel(context.Background())
	e.cancelQuery = cancel
	if e.state.Open {
		e.reduceLocked(dropdown.SetLoadingEvent{Loading: true})
	}
	e.debounceTimer = time.AfterFunc(p.Debounce(), func() {
		res, err := p.Completions(ctx, cc)
		if err != nil {
			logger.Debugw("provider failed", "provider", p.ID(), "error", err)
			res = provider.Result{Anchor: cc.WordStart}
		}
		e.applyResult(seq, p, res)
	})
	e.notifyAndUnlock()
}

// applyResult installs a query result unless it has been superseded.
func (e *Engine) applyResult(seq uint64, p provider.Provider, res provider.Result) {
	e.mu.Lock()

	if seq != e.seq.Load() {
		// A newer query was issued while this one ran; last issued
		// wins.
		logger.Debugw("dropping stale completion result",
			"provider", p.ID(),
			"result_seq", seq,
			"latest_seq", e.seq.Load(),
			"session", e.sessionID,
		)
		e.mu.Unlock()
		return
	}

	sameSession := e.state.Open &&
		e.state.ProviderID == p.ID() &&
		e.state.Anchor == res.Anchor

	if sameSession {
		e.reduceLocked(dropdown.SetItemsEvent{Items: res.Items})
	} else {
		e.sessionID = uuid.NewString()
		e.reduceLocked(dropdown.OpenEvent{
			Items:          res.Items,
			Anchor:         res.Anchor,
			ProviderID:     p.ID(),
			OriginalText:   e.lastText,
			OriginalCursor: e.lastCursor,
		})
	}
	if e.state.Open && res.Loading {
		e.reduceLocked(dropdown.SetLoadingEvent{Loading: true})
	}

	logger.Debugw("completion result applied",
		"provider", p.ID(),
		"items", len(res.Items),
		"open", e.state.Open,
		"session", e.sessionID,
	)

	e.notifyAndUnlock()
}

// Outcome summarizes what a key press did.
type Outcome int

const (
	// OutcomeIgnored means the key was not consumed; the host handles it.
	OutcomeIgnored Outcome = iota
	// OutcomeNavigated moved the selection.
	OutcomeNavigated
	// OutcomeApplied committed an item; the ApplyResult holds the edit.
	OutcomeApplied
	// OutcomeCancelled dismissed the dropdown.
	OutcomeCancelled
)

// HandleKey routes one key press. For OutcomeApplied the returned
// ApplyResult carries the new buffer, cursor, and side effect for the
// host to apply.
func (e *Engine) HandleKey(key dropdown.Key, shift bool) (provider.ApplyResult, Outcome) {
	e.mu.Lock()

	newIndex, action := dropdown.HandleKey(
		key, e.state.SelectedIndex, len(e.state.Items), e.state.Open, shift)

	switch action {
	case dropdown.ActionNavigate:
		e.reduceLocked(dropdown.SelectIndexEvent{Index: newIndex})
		e.notifyAndUnlock()
		return provider.ApplyResult{}, OutcomeNavigated

	case dropdown.ActionDrill:
		if newIndex != e.state.SelectedIndex {
			e.reduceLocked(dropdown.SelectIndexEvent{Index: newIndex})
		}
		return e.confirmAndUnlock(provider.ActionDrill)

	case dropdown.ActionSelect:
		return e.confirmAndUnlock(provider.ActionSelect)

	case dropdown.ActionCancel:
		e.reduceLocked(dropdown.CloseEvent{})
		e.notifyAndUnlock()
		return provider.ApplyResult{}, OutcomeCancelled

	default:
		e.mu.Unlock()
		return provider.ApplyResult{}, OutcomeIgnored
	}
}

// confirmAndUnlock applies the selected item with the requested action,
// falling back to select when the item does not offer the action.
func (e *Engine) confirmAndUnlock(action provider.Action) (provider.ApplyResult, Outcome) {
	item, ok := e.state.Selected()
	if !ok {
		e.mu.Unlock()
		return provider.ApplyResult{}, OutcomeIgnored
	}

	if !item.Actions.Has(action) {
		if !item.Actions.Has(provider.ActionSelect) {
			e.mu.Unlock()
			return provider.ApplyResult{}, OutcomeIgnored
		}
		action = provider.ActionSelect
	}

	res := item.Apply(action, provider.ApplyInput{
		Text:   e.lastText,
		Cursor: e.lastCursor,
		Anchor: e.state.Anchor,
	})

	e.lastText = res.Text
	e.lastCursor = res.Cursor
	if res.CloseDropdown {
		e.reduceLocked(dropdown.CloseEvent{})
	}

	logger.Debugw("completion applied",
		"item", item.Label,
		"close", res.CloseDropdown,
		"effect", res.Effect.Kind,
		"session", e.sessionID,
	)

	e.notifyAndUnlock()
	return res, OutcomeApplied
}

// Close dismisses any open session and cancels in-flight work.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
		e.debounceTimer = nil
	}
	if e.cancelQuery != nil {
		e.cancelQuery()
		e.cancelQuery = nil
	}
	e.seq.Add(1) // supersede anything still running
	e.reduceLocked(dropdown.CloseEvent{})
	e.notifyAndUnlock()
}

// reduceLocked applies one reducer event. Caller holds e.mu.
func (e *Engine) reduceLocked(ev dropdown.Event) {
	e.state = dropdown.Reduce(e.state, ev)
}

// notifyAndUnlock releases the lock and fires the change callback with a
// state copy.
func (e *Engine) notifyAndUnlock() {
	state := e.state
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}
