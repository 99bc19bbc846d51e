package renderer

import (
	"fmt"
	"log"
	"sync"
	"time"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goviewport/encoder"
	"github.com/richinsley/goviewport/graphics"
	"github.com/richinsley/goviewport/inputs"
	"github.com/richinsley/goviewport/shader"
	"github.com/richinsley/goviewport/translator"
	"github.com/richinsley/goviewport/viewport"
)

var glInitOnce sync.Once

// initGL loads the GL entry points. A GL context must be current.
func initGL() error {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
		if initErr == nil {
			log.Printf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))
		}
	})
	if initErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return nil
}

type uniformLocations struct {
	resolution        int32
	time              int32
	timeDelta         int32
	frameRate         int32
	frame             int32
	mouse             int32
	date              int32
	channelResolution int32
	channel           [4]int32
}

// ShaderContext is a viewport.RenderContext drawing one Shadertoy image
// pass into the drawable.
type ShaderContext struct {
	name     string
	source   shader.Source
	clock    graphics.Clock
	recorder *encoder.Recorder

	program     uint32
	quadVAO     uint32
	quadVBO     uint32
	keyboardTex uint32
	loc         uniformLocations
	pixels      []byte

	width     int
	height    int
	startTime float64
	lastTime  float64
	frame     int32

	mouse    inputs.Mouse
	keyboard *inputs.Keyboard
}

var _ viewport.RenderContext = (*ShaderContext)(nil)

func NewShaderContext(name string, source shader.Source, clock graphics.Clock) *ShaderContext {
	return &ShaderContext{
		name:     name,
		source:   source,
		clock:    clock,
		keyboard: inputs.NewKeyboard(),
	}
}

// SetRecorder sends every painted frame to rec. Pass nil to stop.
func (c *ShaderContext) SetRecorder(rec *encoder.Recorder) {
	c.recorder = rec
}

func (c *ShaderContext) Name() string {
	return c.name
}

// Init compiles the shader and allocates the GL objects. The viewport
// calls it once, with the GL context current. Failures are fatal.
func (c *ShaderContext) Init() {
	if err := initGL(); err != nil {
		log.Fatalf("%s: %v", c.name, err)
	}

	code, names, err := translator.TranslateFragment(shader.GetFragmentShader(c.source))
	if err != nil {
		log.Fatalf("%s: %v", c.name, err)
	}
	c.program, err = newProgram(shader.GenerateVertexShader(), code)
	if err != nil {
		log.Fatalf("%s: failed to create shader program: %v", c.name, err)
	}

	gl.UseProgram(c.program)
	c.loc = uniformLocations{
		resolution:        uniformLocation(names, c.program, "iResolution"),
		time:              uniformLocation(names, c.program, "iTime"),
		timeDelta:         uniformLocation(names, c.program, "iTimeDelta"),
		frameRate:         uniformLocation(names, c.program, "iFrameRate"),
		frame:             uniformLocation(names, c.program, "iFrame"),
		mouse:             uniformLocation(names, c.program, "iMouse"),
		date:              uniformLocation(names, c.program, "iDate"),
		channelResolution: uniformLocation(names, c.program, "iChannelResolution[0]"),
	}
	if c.loc.channelResolution < 0 {
		c.loc.channelResolution = uniformLocation(names, c.program, "iChannelResolution")
	}
	for i := range c.loc.channel {
		c.loc.channel[i] = uniformLocation(names, c.program, fmt.Sprintf("iChannel%d", i))
	}
	gl.UseProgram(0)

	c.quadVAO, c.quadVBO = newQuad()
	c.keyboardTex = newKeyboardTexture()

	c.startTime = c.clock.Time()
	c.lastTime = c.startTime
	log.Printf("Initialized render context %q", c.name)
}

// Resize records the drawable size. The viewport can call it before Init,
// so it makes no GL calls; Paint sets the GL viewport.
func (c *ShaderContext) Resize(width, height int) {
	c.width = width
	c.height = height
}

// Size returns the drawable size of the last Resize.
func (c *ShaderContext) Size() (width, height int) {
	return c.width, c.height
}

func (c *ShaderContext) Paint() {
	now := c.clock.Time()
	u := &inputs.Uniforms{
		Time:      float32(now - c.startTime),
		TimeDelta: float32(now - c.lastTime),
		Frame:     c.frame,
		Mouse:     c.mouse.Value(c.height),
		Date:      inputs.Date(time.Now()),
	}
	c.lastTime = now

	if c.keyboard.Dirty() {
		uploadKeyboard(c.keyboardTex, c.keyboard)
	}

	gl.Viewport(0, 0, int32(c.width), int32(c.height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(c.program)
	c.updateUniforms(u)
	gl.ActiveTexture(gl.TEXTURE0 + shader.KeyboardChannel)
	gl.BindTexture(gl.TEXTURE_2D, c.keyboardTex)
	gl.BindVertexArray(c.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if c.recorder != nil && c.width > 0 && c.height > 0 {
		c.pixels = readPixels(c.width, c.height, c.pixels)
		if err := c.recorder.WriteFrame(c.width, c.height, c.pixels); err != nil {
			log.Printf("Warning: %s: %v", c.name, err)
		}
	}

	c.frame++
	c.mouse.EndFrame()
	c.keyboard.EndFrame()
}

func (c *ShaderContext) updateUniforms(u *inputs.Uniforms) {
	if c.loc.resolution != -1 {
		gl.Uniform3f(c.loc.resolution, float32(c.width), float32(c.height), 1)
	}
	if c.loc.time != -1 {
		gl.Uniform1f(c.loc.time, u.Time)
	}
	if c.loc.timeDelta != -1 {
		gl.Uniform1f(c.loc.timeDelta, u.TimeDelta)
	}
	if c.loc.frameRate != -1 && u.TimeDelta > 0 {
		gl.Uniform1f(c.loc.frameRate, 1/u.TimeDelta)
	}
	if c.loc.frame != -1 {
		gl.Uniform1i(c.loc.frame, u.Frame)
	}
	if c.loc.mouse != -1 {
		gl.Uniform4f(c.loc.mouse, u.Mouse[0], u.Mouse[1], u.Mouse[2], u.Mouse[3])
	}
	if c.loc.date != -1 {
		gl.Uniform4f(c.loc.date, u.Date[0], u.Date[1], u.Date[2], u.Date[3])
	}
	if c.loc.channel[shader.KeyboardChannel] != -1 {
		gl.Uniform1i(c.loc.channel[shader.KeyboardChannel], shader.KeyboardChannel)
	}
	if c.loc.channelResolution != -1 {
		res := [3]float32{inputs.KeyboardWidth, inputs.KeyboardHeight, 1}
		gl.Uniform3fv(c.loc.channelResolution+shader.KeyboardChannel, 1, &res[0])
	}
}

func (c *ShaderContext) MouseEvent(e viewport.MouseEvent) {
	c.mouse.Apply(e)
}

func (c *ShaderContext) KeyboardEvent(e viewport.KeyboardEvent) {
	c.keyboard.Apply(e)
}

// Destroy releases the GL objects. The GL context must be current.
func (c *ShaderContext) Destroy() {
	if c.program == 0 {
		return
	}
	gl.DeleteProgram(c.program)
	gl.DeleteVertexArrays(1, &c.quadVAO)
	gl.DeleteBuffers(1, &c.quadVBO)
	gl.DeleteTextures(1, &c.keyboardTex)
	c.program = 0
}
