package viewport

import (
	"fmt"
	"log"
	"reflect"
)

// Adapter connects a toolkit widget to a RenderContext. It forwards
// normalized input, initializes each context once on its first paint and
// coalesces input-driven repaints.
//
// An Adapter is confined to the toolkit's UI thread and is not safe for
// concurrent use.
type Adapter struct {
	toolkit Toolkit
	repaint *Trigger

	// context is borrowed from the application, never destroyed here.
	context   RenderContext
	width     int
	height    int
	needsInit bool

	// initialized only grows: contexts are expected to live as long as the
	// process.
	initialized map[RenderContext]struct{}
}

var _ Host = (*Adapter)(nil)

// NewAdapter returns an Adapter with no context attached.
func NewAdapter(tk Toolkit) *Adapter {
	return &Adapter{
		toolkit:     tk,
		repaint:     NewTrigger(tk, tk.Repaint),
		initialized: make(map[RenderContext]struct{}),
	}
}

// SetContext attaches ctx, replacing the current context. ctx may be nil to
// detach. The next OnPaint runs the first-use initialization if ctx has
// never been initialized, and resizes it to the current size otherwise.
// SetContext does not request a repaint.
//
// Contexts are tracked by identity, so ctx must be a pointer; SetContext
// panics otherwise. This is the only panic in the Adapter.
func (a *Adapter) SetContext(ctx RenderContext) {
	if ctx != nil {
		if k := reflect.TypeOf(ctx).Kind(); k != reflect.Ptr {
			panic(fmt.Sprintf("viewport: render context must be a pointer, got %T", ctx))
		}
	}
	a.context = ctx
	a.needsInit = true
}

// Context returns the attached context, or nil.
func (a *Adapter) Context() RenderContext {
	return a.context
}

// Size returns the last known drawable size in pixels.
func (a *Adapter) Size() (width, height int) {
	return a.width, a.height
}

// Initialized reports whether ctx already went through Init on this adapter.
func (a *Adapter) Initialized(ctx RenderContext) bool {
	_, ok := a.initialized[ctx]
	return ok
}

// RepaintPending reports whether an input-driven repaint is armed.
func (a *Adapter) RepaintPending() bool {
	return a.repaint.Pending()
}

// RequestRepaint arms the coalesced repaint.
func (a *Adapter) RequestRepaint() {
	a.repaint.Request()
}

func (a *Adapter) OnResize(width, height int) {
	log.Printf("Resizing GL from %dx%d to %dx%d", a.width, a.height, width, height)
	a.width = width
	a.height = height
	if a.context != nil {
		a.context.Resize(width, height)
	}
}

func (a *Adapter) OnPaint() {
	if a.context == nil {
		return
	}

	if a.needsInit {
		if _, ok := a.initialized[a.context]; !ok {
			if v, ok := a.toolkit.(glVersioner); ok {
				major, minor := v.GLVersion()
				log.Printf("Using OpenGL %d.%d ...", major, minor)
			}
			a.context.Init()
			a.context.Resize(a.width, a.height)
			a.initialized[a.context] = struct{}{}
		} else {
			a.context.Resize(a.width, a.height)
		}
		a.needsInit = false
	}

	a.context.Paint()
}

// HandleMouse normalizes e, forwards it to the context as an event of type
// t and requests a repaint.
func (a *Adapter) HandleMouse(e NativeMouseEvent, t MouseEventType) {
	if a.context == nil {
		return
	}
	a.context.MouseEvent(a.translateMouse(e, t))
	a.repaint.Request()
}

func (a *Adapter) translateMouse(e NativeMouseEvent, t MouseEventType) MouseEvent {
	x, y := Normalize(a.toolkit.DevicePixelRatio(), e.X, e.Y)
	return MouseEvent{
		Type:       t,
		Button:     e.Button,
		ButtonMask: e.Buttons,
		X:          x,
		Y:          y,
	}
}

func (a *Adapter) OnMousePress(e NativeMouseEvent) {
	a.HandleMouse(e, MousePress)
}

func (a *Adapter) OnMouseRelease(e NativeMouseEvent) {
	a.HandleMouse(e, MouseRelease)
}

func (a *Adapter) OnMouseMove(e NativeMouseEvent) {
	a.HandleMouse(e, MouseMove)
}

func (a *Adapter) OnWheel(e NativeMouseEvent) {
	e.Button = ButtonNone
	a.HandleMouse(e, WheelType(e.Delta))
}

// HandleKey forwards e to the context as an event of type t. Auto-repeated
// events go to the toolkit's default handling instead.
func (a *Adapter) HandleKey(e NativeKeyEvent, t KeyboardEventType) {
	if e.AutoRepeat {
		a.toolkit.DefaultKeyEvent(e, t)
		return
	}
	if a.context == nil {
		return
	}
	a.context.KeyboardEvent(KeyboardEvent{Type: t, Keycode: e.Key})
	a.repaint.Request()
}

func (a *Adapter) OnKeyPress(e NativeKeyEvent) {
	a.HandleKey(e, KeyPress)
}

func (a *Adapter) OnKeyRelease(e NativeKeyEvent) {
	a.HandleKey(e, KeyRelease)
}
