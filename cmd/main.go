package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	api "github.com/richinsley/goviewport/api"
	"github.com/richinsley/goviewport/encoder"
	"github.com/richinsley/goviewport/glfwcontext"
	"github.com/richinsley/goviewport/graphics"
	options "github.com/richinsley/goviewport/options"
	renderer "github.com/richinsley/goviewport/renderer"
	"github.com/richinsley/goviewport/shader"
)

func init() {
	runtime.LockOSThread()
}

// loadSource resolves a context definition into shader code.
func loadSource(cfg options.ContextConfig, opts *options.ShaderOptions) (shader.Source, error) {
	switch {
	case cfg.Builtin != "":
		src, ok := shader.Builtin(cfg.Builtin)
		if !ok {
			return shader.Source{}, fmt.Errorf("unknown builtin shader %q (have %s)", cfg.Builtin, strings.Join(shader.BuiltinNames(), ", "))
		}
		return src, nil
	case cfg.File != "":
		code, err := os.ReadFile(cfg.File)
		if err != nil {
			return shader.Source{}, fmt.Errorf("failed to read shader file: %w", err)
		}
		return shader.Source{Title: cfg.Label(), Image: string(code)}, nil
	default:
		log.Printf("Fetching shader with ID: %s", cfg.Shader)
		shaderJSON, err := api.ShaderFromID(*opts.APIKey, cfg.Shader, !*opts.NoCache)
		if err != nil {
			return shader.Source{}, fmt.Errorf("error fetching shader from ID: %w", err)
		}
		src, complete, err := api.SourceFromJSON(shaderJSON)
		if err != nil {
			return shader.Source{}, fmt.Errorf("error processing shader JSON: %w", err)
		}
		if !complete {
			log.Printf("Warning: %s uses passes or inputs that are not rendered.", src.Title)
		}
		return src, nil
	}
}

func main() {
	opts, err := options.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if *opts.Help {
		fmt.Println("GL viewport for Shadertoy-style shaders")
		fmt.Println("Built-in shaders:", strings.Join(shader.BuiltinNames(), ", "))
		return
	}

	if len(opts.Contexts) == 0 {
		for _, name := range shader.BuiltinNames() {
			opts.Contexts = append(opts.Contexts, options.ContextConfig{Builtin: name})
		}
	}

	sources := make([]shader.Source, len(opts.Contexts))
	for i, cfg := range opts.Contexts {
		sources[i], err = loadSource(cfg, opts)
		if err != nil {
			log.Fatalf("Context %q: %v", cfg.Label(), err)
		}
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(opts, true, nil)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	var surface graphics.Context = win
	defer surface.Shutdown()

	var rec *encoder.Recorder
	if *opts.OutputFile != "" {
		rec = encoder.NewRecorder(encoder.Options{
			OutputFile: *opts.OutputFile,
			FPS:        *opts.FPS,
			Codec:      *opts.Codec,
			FFmpegPath: *opts.FFMPEGPath,
		})
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("Recording failed: %v", err)
			}
		}()
	}

	contexts := make([]*renderer.ShaderContext, len(sources))
	for i, src := range sources {
		contexts[i] = renderer.NewShaderContext(opts.Contexts[i].Label(), src, surface)
		contexts[i].SetRecorder(rec)
	}
	defer func() {
		surface.MakeCurrent()
		for _, c := range contexts {
			c.Destroy()
		}
	}()

	current := 0
	attach := func(i int) {
		current = (i + len(contexts)) % len(contexts)
		c := contexts[current]
		title := sources[current].Title
		if title == "" {
			title = c.Name()
		}
		win.SetTitle(fmt.Sprintf("goviewport - %s", title))
		log.Printf("Attaching render context %d/%d: %s", current+1, len(contexts), title)
		win.SetContext(c)
	}
	win.RegisterKeyCallback(glfw.KeyTab, func() {
		if win.Window().GetKey(glfw.KeyLeftShift) == glfw.Press || win.Window().GetKey(glfw.KeyRightShift) == glfw.Press {
			attach(current - 1)
		} else {
			attach(current + 1)
		}
	})
	attach(0)

	log.Println("Starting interactive render loop... (Tab / Shift+Tab switch shaders, Esc quits)")
	surface.Run()
}
