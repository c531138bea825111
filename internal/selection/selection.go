// Package selection tracks the open/closed state and highlighted row of a
// keyboard-navigable dropdown.
package selection

// None is the index when no row is highlighted
const None = -1

// Machine is a dropdown selection state machine: Closed, Open with no row,
// or Open with row i. The zero value is closed with no results.
// Machine is not safe for concurrent use; owners guard it.
type Machine struct {
	open  bool
	index int
	count int
}

// New returns a closed machine
func New() *Machine {
	return &Machine{index: None}
}

// IsOpen reports whether the dropdown is visible
func (m *Machine) IsOpen() bool { return m.open }

// Index returns the highlighted row, or None
func (m *Machine) Index() int {
	if !m.open || m.count == 0 {
		return None
	}
	return m.index
}

// Count returns the number of selectable rows
func (m *Machine) Count() int { return m.count }

// Open shows the dropdown without highlighting a row
func (m *Machine) Open() {
	if !m.open {
		m.index = None
	}
	m.open = true
}

// Close hides the dropdown and clears the highlight
func (m *Machine) Close() {
	m.open = false
	m.index = None
}

// Down moves the highlight forward, wrapping past the last row
func (m *Machine) Down() {
	if !m.open || m.count == 0 {
		return
	}
	if m.index < 0 || m.index >= m.count-1 {
		m.index = 0
		return
	}
	m.index++
}

// Up moves the highlight backward, wrapping before the first row.
// From no highlight it lands on the last row.
func (m *Machine) Up() {
	if !m.open || m.count == 0 {
		return
	}
	if m.index <= 0 || m.index >= m.count {
		m.index = m.count - 1
		return
	}
	m.index--
}

// Enter commits the highlighted row and closes the dropdown.
// Without a highlight nothing happens and ok is false.
func (m *Machine) Enter() (index int, ok bool) {
	if !m.open || m.count == 0 || m.index < 0 || m.index >= m.count {
		return None, false
	}
	index = m.index
	m.Close()
	return index, true
}

// Resize updates the row count. A highlight past the new end is cleared.
func (m *Machine) Resize(n int) {
	if n < 0 {
		n = 0
	}
	m.count = n
	if m.index >= n {
		m.index = None
	}
}
