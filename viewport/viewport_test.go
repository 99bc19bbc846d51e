package viewport

import (
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"testing"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeToolkit struct {
	*Queue
	ratio    float64
	repaints int
	defaults []NativeKeyEvent
	deferred int
	adapter  *Adapter
}

func newFakeToolkit(ratio float64) *fakeToolkit {
	return &fakeToolkit{Queue: NewQueue(nil), ratio: ratio}
}

func (f *fakeToolkit) DevicePixelRatio() float64 { return f.ratio }

func (f *fakeToolkit) Defer(fn func()) {
	f.deferred++
	f.Queue.Defer(fn)
}

func (f *fakeToolkit) Repaint() {
	f.repaints++
	if f.adapter != nil {
		f.adapter.OnPaint()
	}
}

func (f *fakeToolkit) DefaultKeyEvent(e NativeKeyEvent, t KeyboardEventType) {
	f.defaults = append(f.defaults, e)
}

type versionedToolkit struct {
	*fakeToolkit
	versionCalls int
}

func (v *versionedToolkit) GLVersion() (int, int) {
	v.versionCalls++
	return 4, 1
}

type recordingContext struct {
	calls []string
	mouse []MouseEvent
	keys  []KeyboardEvent
}

func (c *recordingContext) Init() { c.calls = append(c.calls, "init") }

func (c *recordingContext) Resize(w, h int) {
	c.calls = append(c.calls, fmt.Sprintf("resize %dx%d", w, h))
}

func (c *recordingContext) Paint() { c.calls = append(c.calls, "paint") }

func (c *recordingContext) MouseEvent(e MouseEvent) {
	c.calls = append(c.calls, "mouse")
	c.mouse = append(c.mouse, e)
}

func (c *recordingContext) KeyboardEvent(e KeyboardEvent) {
	c.calls = append(c.calls, "key")
	c.keys = append(c.keys, e)
}

func (c *recordingContext) count(call string) int {
	n := 0
	for _, got := range c.calls {
		if got == call {
			n++
		}
	}
	return n
}

func TestNoContextIsNoop(t *testing.T) {
	tk := newFakeToolkit(1)
	a := NewAdapter(tk)

	a.OnPaint()
	a.OnResize(640, 480)
	a.OnMousePress(NativeMouseEvent{Button: ButtonLeft, X: 1, Y: 2})
	a.OnMouseMove(NativeMouseEvent{X: 3, Y: 4})
	a.OnMouseRelease(NativeMouseEvent{Button: ButtonLeft})
	a.OnWheel(NativeMouseEvent{Delta: -1})
	a.OnKeyPress(NativeKeyEvent{Key: 65})
	a.OnKeyRelease(NativeKeyEvent{Key: 65})

	if tk.deferred != 0 {
		t.Errorf("deferred %d repaints without a context", tk.deferred)
	}
	if a.RepaintPending() {
		t.Error("repaint armed without a context")
	}
	if w, h := a.Size(); w != 640 || h != 480 {
		t.Errorf("Size() = %dx%d, want 640x480", w, h)
	}
}

func TestResizeForwardsToContext(t *testing.T) {
	a := NewAdapter(newFakeToolkit(1))
	c := &recordingContext{}
	a.SetContext(c)
	a.OnResize(800, 600)

	want := []string{"resize 800x600"}
	if !reflect.DeepEqual(c.calls, want) {
		t.Errorf("calls = %v, want %v", c.calls, want)
	}
}

func TestFirstPaintInitializesOnce(t *testing.T) {
	a := NewAdapter(newFakeToolkit(1))
	a.OnResize(320, 240)
	c := &recordingContext{}
	a.SetContext(c)

	for i := 0; i < 3; i++ {
		a.OnPaint()
	}

	want := []string{"init", "resize 320x240", "paint", "paint", "paint"}
	if !reflect.DeepEqual(c.calls, want) {
		t.Errorf("calls = %v, want %v", c.calls, want)
	}
	if !a.Initialized(c) {
		t.Error("context not recorded as initialized")
	}
}

func TestReattachResizesWithoutInit(t *testing.T) {
	a := NewAdapter(newFakeToolkit(1))
	a.OnResize(100, 100)
	c1 := &recordingContext{}
	c2 := &recordingContext{}

	a.SetContext(c1)
	a.OnPaint()
	a.SetContext(c2)
	a.OnPaint()
	a.OnResize(200, 150)
	a.SetContext(c1)
	a.OnPaint()

	want := []string{"init", "resize 100x100", "paint", "resize 200x150", "paint"}
	if !reflect.DeepEqual(c1.calls, want) {
		t.Errorf("c1 calls = %v, want %v", c1.calls, want)
	}
	want2 := []string{"init", "resize 100x100", "paint", "resize 200x150"}
	if !reflect.DeepEqual(c2.calls, want2) {
		t.Errorf("c2 calls = %v, want %v", c2.calls, want2)
	}
}

func TestSetSameContextAgain(t *testing.T) {
	a := NewAdapter(newFakeToolkit(1))
	a.OnResize(10, 20)
	c := &recordingContext{}
	a.SetContext(c)
	a.OnPaint()
	a.SetContext(c)
	a.OnPaint()
	a.OnPaint()

	if n := c.count("init"); n != 1 {
		t.Errorf("init called %d times, want 1", n)
	}
	want := []string{"init", "resize 10x20", "paint", "resize 10x20", "paint", "paint"}
	if !reflect.DeepEqual(c.calls, want) {
		t.Errorf("calls = %v, want %v", c.calls, want)
	}
}

func TestDetachStopsForwarding(t *testing.T) {
	tk := newFakeToolkit(1)
	a := NewAdapter(tk)
	c := &recordingContext{}
	a.SetContext(c)
	a.OnPaint()
	a.SetContext(nil)

	a.OnPaint()
	a.OnResize(5, 5)
	a.OnMouseMove(NativeMouseEvent{X: 1, Y: 1})

	want := []string{"init", "resize 0x0", "paint"}
	if !reflect.DeepEqual(c.calls, want) {
		t.Errorf("calls = %v, want %v", c.calls, want)
	}
	if a.Context() != nil {
		t.Error("Context() should be nil after detach")
	}
}

func TestSetContextRejectsValueTypes(t *testing.T) {
	a := NewAdapter(newFakeToolkit(1))
	ctx := &recordingContext{}
	a.SetContext(ctx)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for a non-pointer context")
		}
		if a.Context() != ctx {
			t.Error("rejected context replaced the attached one")
		}
	}()
	a.SetContext(valueContext{})
}

type valueContext struct{}

func (valueContext) Init()                       {}
func (valueContext) Resize(int, int)             {}
func (valueContext) Paint()                      {}
func (valueContext) MouseEvent(MouseEvent)       {}
func (valueContext) KeyboardEvent(KeyboardEvent) {}

func TestGLVersionLoggedOnInit(t *testing.T) {
	tk := &versionedToolkit{fakeToolkit: newFakeToolkit(1)}
	a := NewAdapter(tk)
	c := &recordingContext{}
	a.SetContext(c)
	a.OnPaint()
	a.SetContext(c)
	a.OnPaint()

	if tk.versionCalls != 1 {
		t.Errorf("GLVersion called %d times, want 1", tk.versionCalls)
	}
}

func TestMouseNormalization(t *testing.T) {
	tests := []struct {
		ratio float64
		x, y  float64
		wantX int
		wantY int
	}{
		{2.0, 100, 50, 200, 100},
		{1.0, 10.7, 3.2, 10, 3},
		{1.5, 11, 7, 16, 10},
		{1.25, 0.5, 0.9, 0, 1},
		{2.0, -0.25, 1, -1, 2},
	}
	for _, tt := range tests {
		a := NewAdapter(newFakeToolkit(tt.ratio))
		c := &recordingContext{}
		a.SetContext(c)
		a.OnMousePress(NativeMouseEvent{Button: ButtonLeft, Buttons: ButtonMask(ButtonLeft), X: tt.x, Y: tt.y})

		got := c.mouse[0]
		if got.X != tt.wantX || got.Y != tt.wantY {
			t.Errorf("ratio %v (%v, %v): got (%d, %d), want (%d, %d)",
				tt.ratio, tt.x, tt.y, got.X, got.Y, tt.wantX, tt.wantY)
		}
		if got.Type != MousePress || got.Button != ButtonLeft || !got.ButtonMask.Has(ButtonLeft) {
			t.Errorf("unexpected event %+v", got)
		}
	}
}

func TestMouseEventTypes(t *testing.T) {
	a := NewAdapter(newFakeToolkit(1))
	c := &recordingContext{}
	a.SetContext(c)

	a.OnMousePress(NativeMouseEvent{Button: ButtonRight})
	a.OnMouseMove(NativeMouseEvent{Buttons: ButtonMask(ButtonRight)})
	a.OnMouseRelease(NativeMouseEvent{Button: ButtonRight})

	want := []MouseEventType{MousePress, MouseMove, MouseRelease}
	for i, e := range c.mouse {
		if e.Type != want[i] {
			t.Errorf("event %d: type %v, want %v", i, e.Type, want[i])
		}
	}
}

func TestWheelDirection(t *testing.T) {
	tests := []struct {
		delta float64
		want  MouseEventType
	}{
		{-5, MouseWheelDown},
		{3, MouseWheelUp},
		{0, MouseWheelUp},
		{-0.01, MouseWheelDown},
	}
	for _, tt := range tests {
		a := NewAdapter(newFakeToolkit(1))
		c := &recordingContext{}
		a.SetContext(c)
		a.OnWheel(NativeMouseEvent{Button: ButtonLeft, Delta: tt.delta})

		got := c.mouse[0]
		if got.Type != tt.want {
			t.Errorf("delta %v: got %v, want %v", tt.delta, got.Type, tt.want)
		}
		if got.Button != ButtonNone {
			t.Errorf("delta %v: wheel button = %v, want none", tt.delta, got.Button)
		}
	}
}

func TestInputBurstArmsOneRepaint(t *testing.T) {
	tk := newFakeToolkit(1)
	a := NewAdapter(tk)
	tk.adapter = a
	c := &recordingContext{}
	a.SetContext(c)

	a.OnMousePress(NativeMouseEvent{Button: ButtonLeft})
	a.OnMouseMove(NativeMouseEvent{X: 1})
	a.OnMouseMove(NativeMouseEvent{X: 2})
	a.OnMouseRelease(NativeMouseEvent{Button: ButtonLeft})

	if tk.deferred != 1 {
		t.Fatalf("deferred %d times, want 1", tk.deferred)
	}
	if n := c.count("paint"); n != 0 {
		t.Fatalf("painted %d times before drain", n)
	}
	if n := tk.Drain(); n != 1 {
		t.Fatalf("drained %d callbacks, want 1", n)
	}
	if tk.repaints != 1 || c.count("paint") != 1 {
		t.Errorf("repaints = %d, paints = %d, want 1 and 1", tk.repaints, c.count("paint"))
	}

	a.OnKeyPress(NativeKeyEvent{Key: 32})
	if tk.deferred != 2 {
		t.Errorf("input after drain should arm again, deferred = %d", tk.deferred)
	}
}

func TestAutoRepeatNotForwarded(t *testing.T) {
	tk := newFakeToolkit(1)
	a := NewAdapter(tk)
	c := &recordingContext{}
	a.SetContext(c)

	a.OnKeyPress(NativeKeyEvent{Key: 87, AutoRepeat: true})
	a.OnKeyRelease(NativeKeyEvent{Key: 87, AutoRepeat: true})
	if len(c.keys) != 0 {
		t.Fatalf("auto-repeat forwarded: %v", c.keys)
	}
	if len(tk.defaults) != 2 {
		t.Errorf("default handler got %d events, want 2", len(tk.defaults))
	}
	if tk.deferred != 0 {
		t.Errorf("auto-repeat armed a repaint")
	}

	a.OnKeyPress(NativeKeyEvent{Key: 87})
	want := []KeyboardEvent{{Type: KeyPress, Keycode: 87}}
	if !reflect.DeepEqual(c.keys, want) {
		t.Errorf("keys = %v, want %v", c.keys, want)
	}
}

func TestAutoRepeatWithoutContext(t *testing.T) {
	tk := newFakeToolkit(1)
	a := NewAdapter(tk)
	a.OnKeyPress(NativeKeyEvent{Key: 1, AutoRepeat: true})
	if len(tk.defaults) != 1 {
		t.Errorf("default handler got %d events, want 1", len(tk.defaults))
	}
}
