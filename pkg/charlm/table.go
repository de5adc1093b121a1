package charlm

import (
	"fmt"
	"strings"
)

// WindowTable maps every observed window to the list of characters that
// followed it. Windows are remembered in the order they were first seen so
// that iteration, and therefore the debug output, is stable.
type WindowTable struct {
	lists map[string]*EntryList
	order []string
}

// NewWindowTable returns an empty table.
func NewWindowTable() *WindowTable {
	return &WindowTable{lists: make(map[string]*EntryList)}
}

// GetOrCreate returns the list for window, creating an empty one the first
// time the window is requested.
func (t *WindowTable) GetOrCreate(window string) *EntryList {
	if list, ok := t.lists[window]; ok {
		return list
	}
	list := &EntryList{}
	t.lists[window] = list
	t.order = append(t.order, window)
	return list
}

// Get looks up the list for window. The boolean is false if the window was
// never observed.
func (t *WindowTable) Get(window string) (*EntryList, bool) {
	list, ok := t.lists[window]
	return list, ok
}

// Len returns the number of windows in the table.
func (t *WindowTable) Len() int {
	return len(t.lists)
}

// Windows returns the window keys in first-observed order.
func (t *WindowTable) Windows() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Each calls fn for every window in first-observed order, stopping early if fn
// returns false.
func (t *WindowTable) Each(fn func(window string, list *EntryList) bool) {
	for _, w := range t.order {
		if !fn(w, t.lists[w]) {
			return
		}
	}
}

// FinalizeAll computes the probabilities of every list in the table.
func (t *WindowTable) FinalizeAll() error {
	for _, w := range t.order {
		if err := t.lists[w].Finalize(); err != nil {
			return fmt.Errorf("window %q: %w", w, err)
		}
	}
	return nil
}

// String renders one "window : entries" line per window.
func (t *WindowTable) String() string {
	var sb strings.Builder
	for _, w := range t.order {
		sb.WriteString(w)
		sb.WriteString(" : ")
		sb.WriteString(t.lists[w].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
