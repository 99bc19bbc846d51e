package inputs

import (
	"github.com/richinsley/goviewport/viewport"
)

// Mouse tracks the iMouse uniform from normalized mouse events.
//
// xy is the position of the last drag with the left button held. zw is the
// position of the last click; z is negated once the button is released and w
// is only positive during the frame the click happened. Positions are kept
// with a top-left origin and flipped when read, so a resize between input and
// paint does not skew them.
type Mouse struct {
	x, y           float32
	clickX, clickY float32
	down           bool
	clicked        bool
	active         bool
}

// Apply folds e into the state.
func (m *Mouse) Apply(e viewport.MouseEvent) {
	px := float32(e.X)
	py := float32(e.Y)

	switch e.Type {
	case viewport.MousePress:
		if e.Button != viewport.ButtonLeft {
			return
		}
		m.down = true
		m.clicked = true
		m.active = true
		m.clickX, m.clickY = px, py
		m.x, m.y = px, py
	case viewport.MouseMove:
		if m.down || e.ButtonMask.Has(viewport.ButtonLeft) {
			m.active = true
			m.x, m.y = px, py
		}
	case viewport.MouseRelease:
		if e.Button == viewport.ButtonLeft {
			m.down = false
		}
	}
}

// Value returns the current iMouse vector for a drawable of the given
// height, with the origin in the bottom-left corner.
func (m *Mouse) Value(height int) [4]float32 {
	if !m.active {
		return [4]float32{}
	}
	h := float32(height)
	z, w := m.clickX, h-m.clickY
	if !m.down {
		z = -z
	}
	if !m.down || !m.clicked {
		w = -w
	}
	return [4]float32{m.x, h - m.y, z, w}
}

// Down reports whether the left button is held.
func (m *Mouse) Down() bool {
	return m.down
}

// EndFrame must be called after each painted frame.
func (m *Mouse) EndFrame() {
	m.clicked = false
}
