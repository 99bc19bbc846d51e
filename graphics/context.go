package graphics

// Context defines the window surface the application loop drives.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	GetFramebufferSize() (int, int)
	// Run delivers events and deferred work until ShouldClose reports true.
	Run()
	Clock
}

// Clock returns seconds since an arbitrary, fixed origin.
type Clock interface {
	Time() float64
}
