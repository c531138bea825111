package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func openWith(n int) *Machine {
	m := New()
	m.Resize(n)
	m.Open()
	return m
}

func TestDownWrapsWithThreeResults(t *testing.T) {
	m := openWith(3)

	var seen []int
	for range 4 {
		m.Down()
		seen = append(seen, m.Index())
	}

	assert.Equal(t, []int{0, 1, 2, 0}, seen)
}

func TestUpFromNoneGoesToLast(t *testing.T) {
	m := openWith(3)

	m.Up()
	assert.Equal(t, 2, m.Index())
	m.Up()
	m.Up()
	assert.Equal(t, 0, m.Index())
	m.Up()
	assert.Equal(t, 2, m.Index(), "wraps before first row")
}

func TestNavigationIgnoredWhenClosedOrEmpty(t *testing.T) {
	closed := New()
	closed.Resize(3)
	closed.Down()
	closed.Up()
	assert.Equal(t, None, closed.Index())
	assert.False(t, closed.IsOpen())

	empty := openWith(0)
	empty.Down()
	empty.Up()
	assert.Equal(t, None, empty.Index())
}

func TestEnter(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*Machine)
		wantIndex int
		wantOK    bool
		wantOpen  bool
	}{
		{"no highlight", func(*Machine) {}, None, false, true},
		{"highlighted row", func(m *Machine) { m.Down(); m.Down() }, 1, true, false},
		{"closed", func(m *Machine) { m.Down(); m.Close() }, None, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := openWith(3)
			tt.setup(m)

			idx, ok := m.Enter()

			assert.Equal(t, tt.wantIndex, idx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOpen, m.IsOpen())
		})
	}
}

func TestEscapeClearsSelection(t *testing.T) {
	m := openWith(3)
	m.Down()

	m.Close()
	m.Open()

	assert.Equal(t, None, m.Index())
}

func TestResizeClearsOutOfRangeIndex(t *testing.T) {
	m := openWith(5)
	for range 4 {
		m.Down()
	}
	assert.Equal(t, 3, m.Index())

	m.Resize(4)
	assert.Equal(t, 3, m.Index(), "still in range")

	m.Resize(2)
	assert.Equal(t, None, m.Index())

	m.Resize(-1)
	assert.Equal(t, 0, m.Count())
}

func TestZeroValueIsClosed(t *testing.T) {
	var m Machine
	assert.False(t, m.IsOpen())
	assert.Equal(t, None, m.Index())
	_, ok := m.Enter()
	assert.False(t, ok)
}
