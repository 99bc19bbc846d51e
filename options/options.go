package options

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ContextConfig describes one render context. Exactly one of Builtin,
// Shader and File must be set.
type ContextConfig struct {
	Name    string `toml:"name"`
	Builtin string `toml:"builtin"`
	Shader  string `toml:"shader"` // Shadertoy ID or URL
	File    string `toml:"file"`   // GLSL file defining mainImage
}

// Label returns the configured name, or one derived from the source.
func (c ContextConfig) Label() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Builtin != "":
		return c.Builtin
	case c.Shader != "":
		return c.Shader
	default:
		return strings.TrimSuffix(filepath.Base(c.File), filepath.Ext(c.File))
	}
}

type ShaderOptions struct {
	APIKey     *string
	Help       *bool
	ConfigFile *string
	Width      *int
	Height     *int
	BitDepth   *int
	Animate    *bool
	NoCache    *bool
	OutputFile *string
	FPS        *int
	Codec      *string
	FFMPEGPath *string
	Contexts   []ContextConfig
}

// fileConfig is the layout of the TOML config file.
type fileConfig struct {
	APIKey   string          `toml:"apikey"`
	Width    int             `toml:"width"`
	Height   int             `toml:"height"`
	BitDepth int             `toml:"bitdepth"`
	Animate  *bool           `toml:"animate"`
	NoCache  *bool           `toml:"nocache"`
	Output   string          `toml:"output"`
	FPS      int             `toml:"fps"`
	Codec    string          `toml:"codec"`
	FFmpeg   string          `toml:"ffmpeg"`
	Contexts []ContextConfig `toml:"context"`
}

// Parse reads the command line. Values from the -config file apply to every
// flag not given explicitly; flag contexts are appended to the file's.
func Parse(args []string, output io.Writer) (*ShaderOptions, error) {
	fs := flag.NewFlagSet("goviewport", flag.ContinueOnError)
	fs.SetOutput(output)

	opts := &ShaderOptions{
		APIKey:     fs.String("apikey", "", "Shadertoy API key (from SHADERTOY_KEY env var if not set)"),
		Help:       fs.Bool("help", false, "Show help message"),
		ConfigFile: fs.String("config", "", "TOML config file"),
		Width:      fs.Int("width", 1280, "Initial window width"),
		Height:     fs.Int("height", 720, "Initial window height"),
		BitDepth:   fs.Int("bitdepth", 8, "Color bits per channel (8 or 16)"),
		Animate:    fs.Bool("animate", false, "Repaint continuously instead of on input only"),
		NoCache:    fs.Bool("nocache", false, "Do not cache downloaded shaders"),
		OutputFile: fs.String("record", "", "Record painted frames to this file"),
		FPS:        fs.Int("fps", 60, "Frame rate of the recording"),
		Codec:      fs.String("codec", "h264", "Recording codec (h264 or hevc)"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
	}
	shaders := fs.String("shader", "", "Comma separated Shadertoy shader IDs or URLs")
	builtins := fs.String("builtin", "", "Comma separated built-in shader names")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: goviewport [flags] [shader.glsl ...]\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *opts.Help {
		return opts, nil
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *opts.ConfigFile != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(*opts.ConfigFile, &fc); err != nil {
			return nil, fmt.Errorf("couldn't read config file %s: %w", *opts.ConfigFile, err)
		}
		fc.apply(opts, set)
		base := filepath.Dir(*opts.ConfigFile)
		for _, c := range fc.Contexts {
			if c.File != "" && !filepath.IsAbs(c.File) {
				c.File = filepath.Join(base, c.File)
			}
			opts.Contexts = append(opts.Contexts, c)
		}
	}

	for _, name := range splitList(*builtins) {
		opts.Contexts = append(opts.Contexts, ContextConfig{Builtin: name})
	}
	for _, id := range splitList(*shaders) {
		opts.Contexts = append(opts.Contexts, ContextConfig{Shader: id})
	}
	for _, file := range fs.Args() {
		opts.Contexts = append(opts.Contexts, ContextConfig{File: file})
	}

	if *opts.APIKey == "" {
		*opts.APIKey = os.Getenv("SHADERTOY_KEY")
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (fc *fileConfig) apply(opts *ShaderOptions, set map[string]bool) {
	if fc.APIKey != "" && !set["apikey"] {
		*opts.APIKey = fc.APIKey
	}
	if fc.Width != 0 && !set["width"] {
		*opts.Width = fc.Width
	}
	if fc.Height != 0 && !set["height"] {
		*opts.Height = fc.Height
	}
	if fc.BitDepth != 0 && !set["bitdepth"] {
		*opts.BitDepth = fc.BitDepth
	}
	if fc.Animate != nil && !set["animate"] {
		*opts.Animate = *fc.Animate
	}
	if fc.NoCache != nil && !set["nocache"] {
		*opts.NoCache = *fc.NoCache
	}
	if fc.Output != "" && !set["record"] {
		*opts.OutputFile = fc.Output
	}
	if fc.FPS != 0 && !set["fps"] {
		*opts.FPS = fc.FPS
	}
	if fc.Codec != "" && !set["codec"] {
		*opts.Codec = fc.Codec
	}
	if fc.FFmpeg != "" && !set["ffmpeg"] {
		*opts.FFMPEGPath = fc.FFmpeg
	}
}

// Validate checks option ranges and context definitions.
func (o *ShaderOptions) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", *o.Width, *o.Height)
	}
	if *o.BitDepth != 8 && *o.BitDepth != 16 {
		return fmt.Errorf("bit depth must be 8 or 16, got %d", *o.BitDepth)
	}
	if *o.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", *o.FPS)
	}
	if *o.Codec != "h264" && *o.Codec != "hevc" {
		return fmt.Errorf("unsupported codec %q", *o.Codec)
	}

	seen := map[string]bool{}
	for i, c := range o.Contexts {
		n := 0
		for _, v := range []string{c.Builtin, c.Shader, c.File} {
			if v != "" {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("context %d (%q) must set exactly one of builtin, shader or file", i, c.Name)
		}
		label := c.Label()
		if seen[label] {
			return fmt.Errorf("duplicate context name %q", label)
		}
		seen[label] = true
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
