package viewport

import (
	"fmt"
	"math"
	"strings"
)

type MouseEventType int

const (
	MousePress MouseEventType = iota
	MouseRelease
	MouseMove
	MouseWheelUp
	MouseWheelDown
)

func (t MouseEventType) String() string {
	switch t {
	case MousePress:
		return "press"
	case MouseRelease:
		return "release"
	case MouseMove:
		return "move"
	case MouseWheelUp:
		return "wheel-up"
	case MouseWheelDown:
		return "wheel-down"
	}
	return fmt.Sprintf("MouseEventType(%d)", int(t))
}

// MouseButton identifies a single button. Values are bit flags so that a
// ButtonMask is the union of the buttons it holds.
type MouseButton uint32

const (
	ButtonNone   MouseButton = 0
	ButtonLeft   MouseButton = 1 << 0
	ButtonRight  MouseButton = 1 << 1
	ButtonMiddle MouseButton = 1 << 2
	ButtonX1     MouseButton = 1 << 3
	ButtonX2     MouseButton = 1 << 4
)

func (b MouseButton) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonX1:
		return "x1"
	case ButtonX2:
		return "x2"
	}
	return fmt.Sprintf("MouseButton(%#x)", uint32(b))
}

// ButtonMask is the set of buttons held down while an event occurred.
type ButtonMask uint32

// Has reports whether b is held.
func (m ButtonMask) Has(b MouseButton) bool {
	return b != ButtonNone && uint32(m)&uint32(b) == uint32(b)
}

// With returns m with b added.
func (m ButtonMask) With(b MouseButton) ButtonMask {
	return m | ButtonMask(b)
}

func (m ButtonMask) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	for _, b := range []MouseButton{ButtonLeft, ButtonRight, ButtonMiddle, ButtonX1, ButtonX2} {
		if m.Has(b) {
			names = append(names, b.String())
		}
	}
	return strings.Join(names, "|")
}

// MouseEvent is a toolkit independent mouse event. X and Y are in device
// pixels, relative to the top-left corner of the drawable.
type MouseEvent struct {
	Type       MouseEventType
	Button     MouseButton
	ButtonMask ButtonMask
	X, Y       int
}

type KeyboardEventType int

const (
	KeyPress KeyboardEventType = iota
	KeyRelease
)

func (t KeyboardEventType) String() string {
	switch t {
	case KeyPress:
		return "press"
	case KeyRelease:
		return "release"
	}
	return fmt.Sprintf("KeyboardEventType(%d)", int(t))
}

// KeyboardEvent is a toolkit independent key event. Keycode is the
// toolkit's native key code.
type KeyboardEvent struct {
	Type    KeyboardEventType
	Keycode int
}

// NativeMouseEvent is a mouse event as delivered by the toolkit, with the
// toolkit's button codes already mapped to MouseButton. X and Y are logical
// coordinates and Delta is the wheel delta (zero for non-wheel events).
type NativeMouseEvent struct {
	Button  MouseButton
	Buttons ButtonMask
	X, Y    float64
	Delta   float64
}

// NativeKeyEvent is a key event as delivered by the toolkit.
type NativeKeyEvent struct {
	Key        int
	Scancode   int
	AutoRepeat bool
}

// Normalize converts logical toolkit coordinates into device pixels.
func Normalize(ratio, x, y float64) (int, int) {
	return int(math.Floor(x * ratio)), int(math.Floor(y * ratio))
}

// WheelType derives the wheel direction from the sign of a native delta.
func WheelType(delta float64) MouseEventType {
	if delta < 0 {
		return MouseWheelDown
	}
	return MouseWheelUp
}
