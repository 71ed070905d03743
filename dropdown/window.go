package dropdown

// Window computes the visible slice [start, end) of the item list.
//
// When the list fits, the window spans it. Otherwise the window centers on
// the selection and clamps to the list, guaranteeing exactly visibleCount
// rows once itemCount >= visibleCount and that the selection is always
// inside — the render layer paints a fixed row count (padding blanks when
// short) so the layout never shakes.
func Window(selected, itemCount, visibleCount int) (start, end int) {
	if visibleCount <= 0 || itemCount <= 0 {
		return 0, 0
	}
	if itemCount <= visibleCount {
		return 0, itemCount
	}

	if selected < 0 {
		selected = 0
	}
	if selected >= itemCount {
		selected = itemCount - 1
	}

	start = selected - visibleCount/2
	if start < 0 {
		start = 0
	}
	end = start + visibleCount
	if end > itemCount {
		end = itemCount
		start = end - visibleCount
	}
	return start, end
}
