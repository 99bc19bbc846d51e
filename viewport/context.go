package viewport

// RenderContext is the application-level rendering collaborator driven by
// an Adapter. All calls happen on the UI thread and are assumed to succeed.
// Implementations must be pointer types: the Adapter remembers initialized
// contexts by identity and rejects values in SetContext.
type RenderContext interface {
	// Init performs one-time GPU setup. It runs at most once per context
	// for the lifetime of an Adapter.
	Init()
	Resize(width, height int)
	Paint()
	MouseEvent(e MouseEvent)
	KeyboardEvent(e KeyboardEvent)
}

// Toolkit is the part of the windowing toolkit the Adapter consumes.
type Toolkit interface {
	// DevicePixelRatio returns the ratio between physical and logical pixels.
	DevicePixelRatio() float64
	// Defer schedules fn to run once after the events currently queued in
	// the toolkit have been delivered.
	Defer(fn func())
	// Repaint asks the toolkit to paint the widget now. It normally ends up
	// calling the Adapter's OnPaint.
	Repaint()
	// DefaultKeyEvent is the toolkit's own handling for key events the
	// render context should not see.
	DefaultKeyEvent(e NativeKeyEvent, t KeyboardEventType)
}

// glVersioner is implemented by toolkits that can report the version of the
// GL context they created.
type glVersioner interface {
	GLVersion() (major, minor int)
}

// Host is the event-handler contract a toolkit widget delegates to.
type Host interface {
	OnResize(width, height int)
	OnPaint()
	OnMousePress(e NativeMouseEvent)
	OnMouseRelease(e NativeMouseEvent)
	OnMouseMove(e NativeMouseEvent)
	OnWheel(e NativeMouseEvent)
	OnKeyPress(e NativeKeyEvent)
	OnKeyRelease(e NativeKeyEvent)
}

// Scheduler runs deferred callbacks.
type Scheduler interface {
	Defer(fn func())
}
