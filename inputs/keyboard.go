package inputs

import (
	"github.com/richinsley/goviewport/viewport"
)

const (
	KeyboardWidth  = 256
	KeyboardHeight = 3

	rowHeld    = 0
	rowPressed = 1
	rowToggled = 2
)

// Keyboard is the state behind a Shadertoy keyboard channel: a 256x3
// single channel texture indexed by browser key code. Row 0 holds the keys
// currently down, row 1 the keys pressed during this frame and row 2 flips on
// every press.
//
// Left and right modifiers share a browser code; the code stays held until
// every physical key behind it is released.
type Keyboard struct {
	pixels [KeyboardWidth * KeyboardHeight]byte
	dirty  bool

	down  map[int]struct{} // native key codes currently held
	holds [KeyboardWidth]int
}

func NewKeyboard() *Keyboard {
	return &Keyboard{dirty: true, down: make(map[int]struct{})}
}

// Apply folds e into the state. Keys without a browser key code are ignored.
func (k *Keyboard) Apply(e viewport.KeyboardEvent) {
	code, ok := BrowserKeyCode(e.Keycode)
	if !ok {
		return
	}
	switch e.Type {
	case viewport.KeyPress:
		if _, ok := k.down[e.Keycode]; ok {
			return
		}
		k.down[e.Keycode] = struct{}{}
		k.holds[code]++
		if k.holds[code] > 1 {
			return
		}
		k.set(rowHeld, code, 255)
		k.set(rowPressed, code, 255)
		k.set(rowToggled, code, 255-k.get(rowToggled, code))
	case viewport.KeyRelease:
		if _, ok := k.down[e.Keycode]; !ok {
			return
		}
		delete(k.down, e.Keycode)
		k.holds[code]--
		if k.holds[code] == 0 {
			k.set(rowHeld, code, 0)
		}
	}
}

// Held reports whether the key with the given browser code is down.
func (k *Keyboard) Held(code int) bool {
	return code >= 0 && code < KeyboardWidth && k.get(rowHeld, code) != 0
}

// Toggled reports the toggle state of the key with the given browser code.
func (k *Keyboard) Toggled(code int) bool {
	return code >= 0 && code < KeyboardWidth && k.get(rowToggled, code) != 0
}

// Pixels returns the texture data, row by row.
func (k *Keyboard) Pixels() []byte {
	return k.pixels[:]
}

// Dirty reports whether Pixels changed since the last ClearDirty.
func (k *Keyboard) Dirty() bool {
	return k.dirty
}

func (k *Keyboard) ClearDirty() {
	k.dirty = false
}

// EndFrame forgets the keys pressed during the frame just painted.
func (k *Keyboard) EndFrame() {
	row := k.pixels[rowPressed*KeyboardWidth : (rowPressed+1)*KeyboardWidth]
	for i, v := range row {
		if v != 0 {
			row[i] = 0
			k.dirty = true
		}
	}
}

func (k *Keyboard) get(row, code int) byte {
	return k.pixels[row*KeyboardWidth+code]
}

func (k *Keyboard) set(row, code int, v byte) {
	i := row*KeyboardWidth + code
	if k.pixels[i] != v {
		k.pixels[i] = v
		k.dirty = true
	}
}
