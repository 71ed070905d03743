package dropdown

// Key is a raw key input relevant to dropdown navigation.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyTab
	KeyEnter
	KeyEscape
	KeyOther
)

// Action is the semantic decision for one key press.
type Action int

const (
	// ActionNone means the key is not ours; the host handles it.
	ActionNone Action = iota
	// ActionNavigate moved the selection; apply NewIndex.
	ActionNavigate
	// ActionDrill advances context without closing.
	ActionDrill
	// ActionSelect commits the selection.
	ActionSelect
	// ActionCancel dismisses the dropdown.
	ActionCancel
)

// HandleKey maps a raw key to a semantic action given the current state.
// It never mutates state: callers apply newIndex via SelectIndexEvent and
// route the action into the apply protocol.
func HandleKey(key Key, selectedIndex, itemCount int, isOpen, shiftKey bool) (newIndex int, action Action) {
	if !isOpen {
		return selectedIndex, ActionNone
	}

	switch key {
	case KeyDown:
		if itemCount == 0 {
			return selectedIndex, ActionNavigate
		}
		return (selectedIndex + 1) % itemCount, ActionNavigate
	case KeyUp:
		if itemCount == 0 {
			return selectedIndex, ActionNavigate
		}
		return (selectedIndex - 1 + itemCount) % itemCount, ActionNavigate
	case KeyTab:
		// Shift+Tab drills backward through the list first.
		if shiftKey && itemCount > 0 {
			return (selectedIndex - 1 + itemCount) % itemCount, ActionDrill
		}
		return selectedIndex, ActionDrill
	case KeyEnter:
		return selectedIndex, ActionSelect
	case KeyEscape:
		return selectedIndex, ActionCancel
	default:
		return selectedIndex, ActionNone
	}
}
