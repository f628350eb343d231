package router

// History is the back/forward list of a navigation session. Entries are full
// paths including any query string.
type History struct {
	entries []string
	index   int
}

// Push records a new entry after the current one, dropping any forward
// entries. Pushing the current entry again is a no-op and keeps the forward
// entries, so re-navigating to the page after Back leaves Forward usable.
func (h *History) Push(path string) {
	if len(h.entries) > 0 && h.entries[h.index] == path {
		return
	}
	if len(h.entries) > 0 {
		h.entries = h.entries[:h.index+1]
	}
	h.entries = append(h.entries, path)
	h.index = len(h.entries) - 1
}

// At returns the entry delta steps away from the current one.
func (h *History) At(delta int) (string, bool) {
	i := h.index + delta
	if len(h.entries) == 0 || i < 0 || i >= len(h.entries) {
		return "", false
	}
	return h.entries[i], true
}

// Go moves the cursor by delta. It reports false and stays put when that
// would leave the list.
func (h *History) Go(delta int) bool {
	if _, ok := h.At(delta); !ok {
		return false
	}
	h.index += delta
	return true
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Index returns the cursor position, or -1 when empty.
func (h *History) Index() int {
	if len(h.entries) == 0 {
		return -1
	}
	return h.index
}

// Entries returns a copy of all entries.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Clear removes all entries.
func (h *History) Clear() {
	h.entries = h.entries[:0]
	h.index = 0
}
