package options

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewport.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDefaults(t *testing.T) {
	t.Setenv("SHADERTOY_KEY", "from-env")
	opts, err := Parse(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if *opts.Width != 1280 || *opts.Height != 720 || *opts.BitDepth != 8 || *opts.Animate {
		t.Errorf("unexpected defaults: %dx%d depth %d animate %v", *opts.Width, *opts.Height, *opts.BitDepth, *opts.Animate)
	}
	if *opts.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want env value", *opts.APIKey)
	}
	if len(opts.Contexts) != 0 {
		t.Errorf("Contexts = %v, want none", opts.Contexts)
	}
}

func TestParseFlagContexts(t *testing.T) {
	opts, err := Parse([]string{"-builtin", "plasma, cursor", "-shader", "XlSSzV", "demo/ring.glsl"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	want := []ContextConfig{
		{Builtin: "plasma"},
		{Builtin: "cursor"},
		{Shader: "XlSSzV"},
		{File: "demo/ring.glsl"},
	}
	if !reflect.DeepEqual(opts.Contexts, want) {
		t.Errorf("Contexts = %+v, want %+v", opts.Contexts, want)
	}
	if got := opts.Contexts[3].Label(); got != "ring" {
		t.Errorf("file label = %q, want ring", got)
	}
}

func TestParseConfigFile(t *testing.T) {
	path := writeConfig(t, `
width = 800
height = 600
animate = true
apikey = "file-key"
fps = 30

[[context]]
name = "waves"
builtin = "gradient"

[[context]]
file = "shaders/tunnel.glsl"
`)
	opts, err := Parse([]string{"-config", path, "-height", "480", "-builtin", "plasma"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if *opts.Width != 800 || *opts.Height != 480 {
		t.Errorf("size = %dx%d, want 800x480 (flag wins)", *opts.Width, *opts.Height)
	}
	if !*opts.Animate || *opts.APIKey != "file-key" || *opts.FPS != 30 {
		t.Errorf("file values not applied: animate %v key %q fps %d", *opts.Animate, *opts.APIKey, *opts.FPS)
	}
	want := []ContextConfig{
		{Name: "waves", Builtin: "gradient"},
		{File: filepath.Join(filepath.Dir(path), "shaders", "tunnel.glsl")},
		{Builtin: "plasma"},
	}
	if !reflect.DeepEqual(opts.Contexts, want) {
		t.Errorf("Contexts = %+v, want %+v", opts.Contexts, want)
	}
}

func TestParseConfigFileErrors(t *testing.T) {
	if _, err := Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, io.Discard); err == nil {
		t.Error("expected error for missing config file")
	}
	bad := writeConfig(t, "width = \"wide\"\n")
	if _, err := Parse([]string{"-config", bad}, io.Discard); err == nil {
		t.Error("expected error for mistyped config value")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		args []string
		cfg  string
		want string
	}{
		{"size", []string{"-width", "0"}, "", "invalid window size"},
		{"depth", []string{"-bitdepth", "10"}, "", "bit depth"},
		{"codec", []string{"-codec", "vp9"}, "", "unsupported codec"},
		{"fps", []string{"-fps", "-1"}, "", "fps must be positive"},
		{"duplicate", []string{"-builtin", "plasma,plasma"}, "", "duplicate context"},
		{"two sources", nil, "[[context]]\nbuiltin = \"plasma\"\nshader = \"abc\"\n", "exactly one"},
		{"no source", nil, "[[context]]\nname = \"empty\"\n", "exactly one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.cfg != "" {
				args = append(args, "-config", writeConfig(t, tt.cfg))
			}
			_, err := Parse(args, io.Discard)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse(%v) error = %v, want %q", args, err, tt.want)
			}
		})
	}
}

func TestParseHelp(t *testing.T) {
	opts, err := Parse([]string{"-help", "-width", "0"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !*opts.Help {
		t.Error("Help not set")
	}
	if _, err := Parse([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h error = %v, want flag.ErrHelp", err)
	}
}
