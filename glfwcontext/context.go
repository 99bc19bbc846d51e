package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	options "github.com/richinsley/goviewport/options"
	"github.com/richinsley/goviewport/viewport"
)

// Context is a GLFW window hosting a viewport.Adapter. It turns GLFW
// callbacks into adapter events and supplies the pixel ratio, the deferred
// callback queue and the repaint the adapter needs.
type Context struct {
	window  *glfw.Window
	adapter *viewport.Adapter
	queue   *viewport.Queue
	animate bool
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

var _ viewport.Toolkit = (*Context)(nil)

// New creates a GLFW window and the adapter it hosts. share is an optional
// *glfw.Window whose GL objects the new context shares.
func New(opts *options.ShaderOptions, visible bool, share interface{}) (*Context, error) {
	sharecontext, _ := share.(*glfw.Window)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if *opts.BitDepth > 8 {
		glfw.WindowHint(glfw.RedBits, 16)
		glfw.WindowHint(glfw.GreenBits, 16)
		glfw.WindowHint(glfw.BlueBits, 16)
	}

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(*opts.Width, *opts.Height, "goviewport", nil, sharecontext)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		queue:        viewport.NewQueue(glfw.PostEmptyEvent),
		animate:      *opts.Animate,
		keyCallbacks: make(map[glfw.Key]func()),
	}
	c.adapter = viewport.NewAdapter(c)

	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	win.SetRefreshCallback(c.glfwRefreshCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetScrollCallback(c.glfwScrollCallback)
	win.SetKeyCallback(c.glfwKeyCallback)

	c.adapter.OnResize(win.GetFramebufferSize())
	return c, nil
}

// Adapter returns the hosted adapter.
func (c *Context) Adapter() *viewport.Adapter {
	return c.adapter
}

// SetContext attaches ctx to the viewport and schedules a repaint so it
// shows up without waiting for input.
func (c *Context) SetContext(ctx viewport.RenderContext) {
	c.adapter.SetContext(ctx)
	c.adapter.RequestRepaint()
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed or auto-repeated.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// DevicePixelRatio is the ratio between framebuffer and window width.
func (c *Context) DevicePixelRatio() float64 {
	fbWidth, _ := c.window.GetFramebufferSize()
	winWidth, _ := c.window.GetSize()
	if winWidth <= 0 {
		return 1.0
	}
	return float64(fbWidth) / float64(winWidth)
}

func (c *Context) Defer(fn func()) {
	c.queue.Defer(fn)
}

// Repaint paints the attached render context and presents the frame.
func (c *Context) Repaint() {
	c.window.MakeContextCurrent()
	c.adapter.OnPaint()
	c.window.SwapBuffers()
}

// DefaultKeyEvent handles key events the render context does not get:
// registered callbacks run on auto-repeated presses.
func (c *Context) DefaultKeyEvent(e viewport.NativeKeyEvent, t viewport.KeyboardEventType) {
	if t == viewport.KeyPress {
		c.dispatchKey(glfw.Key(e.Key))
	}
}

func (c *Context) GLVersion() (int, int) {
	return c.window.GetAttrib(glfw.ContextVersionMajor), c.window.GetAttrib(glfw.ContextVersionMinor)
}

func (c *Context) dispatchKey(key glfw.Key) {
	if callback, ok := c.keyCallbacks[key]; ok {
		callback()
	}
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	c.adapter.OnResize(width, height)
	c.adapter.RequestRepaint()
}

func (c *Context) glfwRefreshCallback(w *glfw.Window) {
	c.Repaint()
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	e := c.nativeMouse(mapButton(button))
	switch action {
	case glfw.Press:
		// click to focus
		if w.GetAttrib(glfw.Focused) == glfw.False {
			w.Focus()
		}
		c.adapter.OnMousePress(e)
	case glfw.Release:
		c.adapter.OnMouseRelease(e)
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	e := c.nativeMouse(viewport.ButtonNone)
	e.X, e.Y = xpos, ypos
	c.adapter.OnMouseMove(e)
}

func (c *Context) glfwScrollCallback(w *glfw.Window, xoff, yoff float64) {
	e := c.nativeMouse(viewport.ButtonNone)
	e.Delta = yoff
	c.adapter.OnWheel(e)
}

// glfwKeyCallback is the function that will be called by GLFW on a key event.
func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	e := viewport.NativeKeyEvent{Key: int(key), Scancode: scancode}
	switch action {
	case glfw.Press:
		if key == glfw.KeyEscape {
			w.SetShouldClose(true)
		}
		c.dispatchKey(key)
		c.adapter.OnKeyPress(e)
	case glfw.Repeat:
		e.AutoRepeat = true
		c.adapter.OnKeyPress(e)
	case glfw.Release:
		c.adapter.OnKeyRelease(e)
	}
}

// nativeMouse builds an event at the current cursor position with the
// current button state.
func (c *Context) nativeMouse(button viewport.MouseButton) viewport.NativeMouseEvent {
	x, y := c.window.GetCursorPos()
	return viewport.NativeMouseEvent{
		Button:  button,
		Buttons: c.buttons(),
		X:       x,
		Y:       y,
	}
}

var buttonMap = []struct {
	glfw   glfw.MouseButton
	button viewport.MouseButton
}{
	{glfw.MouseButtonLeft, viewport.ButtonLeft},
	{glfw.MouseButtonRight, viewport.ButtonRight},
	{glfw.MouseButtonMiddle, viewport.ButtonMiddle},
	{glfw.MouseButton4, viewport.ButtonX1},
	{glfw.MouseButton5, viewport.ButtonX2},
}

func mapButton(b glfw.MouseButton) viewport.MouseButton {
	for _, m := range buttonMap {
		if m.glfw == b {
			return m.button
		}
	}
	return viewport.ButtonNone
}

func (c *Context) buttons() viewport.ButtonMask {
	var mask viewport.ButtonMask
	for _, m := range buttonMap {
		if c.window.GetMouseButton(m.glfw) == glfw.Press {
			mask = mask.With(m.button)
		}
	}
	return mask
}

// Run processes events until the window is closed. Deferred work, such as
// coalesced repaints, runs once per pass after all pending events were
// delivered. With animation enabled every pass paints.
func (c *Context) Run() {
	for !c.window.ShouldClose() {
		if c.animate {
			glfw.PollEvents()
			c.adapter.RequestRepaint()
		} else {
			glfw.WaitEvents()
		}
		c.queue.Drain()
	}
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown detaches the render context and destroys the window.
func (c *Context) Shutdown() {
	c.adapter.SetContext(nil)
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// Window returns the underlying *glfw.Window. This is kept for context sharing.
func (c *Context) Window() *glfw.Window {
	return c.window
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
