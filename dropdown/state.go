// Package dropdown owns the completion dropdown lifecycle as a pure state
// machine, plus the scroll window and key navigation that sit on top of it.
//
// Every transition is a total, I/O-free function from state to state, so
// the whole lifecycle is testable without a renderer.
package dropdown

import "github.com/hlvm-dev/hqlc/provider"

// State is the dropdown state. The reducer is its sole owner; hosts treat
// it as an immutable value.
type State struct {
	Open          bool
	Items         []provider.Item
	SelectedIndex int
	Anchor        int
	ProviderID    string
	Loading       bool

	// OriginalText and OriginalCursor capture the buffer at session
	// open, for hosts that restore on cancel.
	OriginalText   string
	OriginalCursor int
}

// Initial is the closed idle state.
func Initial() State {
	return State{SelectedIndex: -1}
}

// Selected returns the currently selected item, if any.
func (s State) Selected() (provider.Item, bool) {
	if !s.Open || s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Items) {
		return provider.Item{}, false
	}
	return s.Items[s.SelectedIndex], true
}

// Event is a dropdown state transition input.
type Event interface{ isEvent() }

// OpenEvent starts a session with the given items and anchor.
type OpenEvent struct {
	Items          []provider.Item
	Anchor         int
	ProviderID     string
	OriginalText   string
	OriginalCursor int
}

// CloseEvent resets unconditionally to the initial idle state.
type CloseEvent struct{}

// SetItemsEvent replaces the item list mid-session.
type SetItemsEvent struct {
	Items []provider.Item
}

// SelectNextEvent moves the selection down, wrapping.
type SelectNextEvent struct{}

// SelectPrevEvent moves the selection up, wrapping.
type SelectPrevEvent struct{}

// SelectIndexEvent sets the selection; out-of-range is a no-op.
type SelectIndexEvent struct {
	Index int
}

// SetLoadingEvent toggles only the loading flag.
type SetLoadingEvent struct {
	Loading bool
}

func (OpenEvent) isEvent()        {}
func (CloseEvent) isEvent()       {}
func (SetItemsEvent) isEvent()    {}
func (SelectNextEvent) isEvent()  {}
func (SelectPrevEvent) isEvent()  {}
func (SelectIndexEvent) isEvent() {}
func (SetLoadingEvent) isEvent()  {}

// Reduce applies one event. Pure and total: unknown combinations return
// the state unchanged, never an error.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case OpenEvent:
		// Opening with zero items collapses to closed.
		if len(ev.Items) == 0 {
			return Initial()
		}
		return State{
			Open:           true,
			Items:          ev.Items,
			SelectedIndex:  0,
			Anchor:         ev.Anchor,
			ProviderID:     ev.ProviderID,
			OriginalText:   ev.OriginalText,
			OriginalCursor: ev.OriginalCursor,
		}

	case CloseEvent:
		return Initial()

	case SetItemsEvent:
		if !s.Open {
			return s
		}
		if len(ev.Items) == 0 {
			return Initial()
		}
		next := s
		next.Items = ev.Items
		next.Loading = false
		if next.SelectedIndex < 0 || next.SelectedIndex >= len(ev.Items) {
			next.SelectedIndex = 0
		}
		return next

	case SelectNextEvent:
		if !s.Open || len(s.Items) == 0 {
			return s
		}
		next := s
		next.SelectedIndex = (s.SelectedIndex + 1) % len(s.Items)
		return next

	case SelectPrevEvent:
		if !s.Open || len(s.Items) == 0 {
			return s
		}
		next := s
		next.SelectedIndex = (s.SelectedIndex - 1 + len(s.Items)) % len(s.Items)
		return next

	case SelectIndexEvent:
		if !s.Open || ev.Index < 0 || ev.Index >= len(s.Items) {
			return s
		}
		next := s
		next.SelectedIndex = ev.Index
		return next

	case SetLoadingEvent:
		next := s
		next.Loading = ev.Loading
		return next

	default:
		return s
	}
}
