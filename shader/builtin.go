package shader

import "sort"

var builtins = map[string]string{
	// default Shadertoy "new shader" template
	"gradient": `
void mainImage(out vec4 fragColor, in vec2 fragCoord)
{
    vec2 uv = fragCoord / iResolution.xy;
    vec3 col = 0.5 + 0.5 * cos(iTime + uv.xyx + vec3(0, 2, 4));
    fragColor = vec4(col, 1.0);
}
`,
	"plasma": `
void mainImage(out vec4 fragColor, in vec2 fragCoord)
{
    vec2 p = (2.0 * fragCoord - iResolution.xy) / iResolution.y;
    float t = iTime * 0.5;
    float v = sin(p.x * 3.0 + t) + sin(p.y * 4.0 - t) + sin(length(p) * 6.0 - 2.0 * t);
    fragColor = vec4(0.5 + 0.5 * sin(v + vec3(0.0, 2.1, 4.2)), 1.0);
}
`,
	// draws the last drag position and the click position
	"cursor": `
float disc(vec2 p, vec2 c, float r)
{
    return 1.0 - smoothstep(r - 1.5, r, length(p - c));
}

void mainImage(out vec4 fragColor, in vec2 fragCoord)
{
    vec3 col = vec3(0.08, 0.09, 0.12);
    vec2 grid = abs(fract(fragCoord / 32.0) - 0.5);
    col += 0.04 * step(0.48, max(grid.x, grid.y));
    col = mix(col, vec3(1.0, 0.6, 0.1), disc(fragCoord, iMouse.xy, 12.0));
    float held = step(0.0, iMouse.z);
    col = mix(col, vec3(0.2, 0.7, 1.0) * (0.4 + 0.6 * held), disc(fragCoord, abs(iMouse.zw), 6.0));
    fragColor = vec4(col, 1.0);
}
`,
	// one cell per browser key code, lit while held
	"keyboard": `
void mainImage(out vec4 fragColor, in vec2 fragCoord)
{
    vec2 uv = fragCoord / iResolution.xy;
    vec2 cell = floor(uv * vec2(16.0, 16.0));
    int code = int(cell.x + (15.0 - cell.y) * 16.0);
    float held = texelFetch(iChannel0, ivec2(code, 0), 0).x;
    float toggled = texelFetch(iChannel0, ivec2(code, 2), 0).x;
    vec2 f = fract(uv * 16.0);
    float border = step(0.05, min(min(f.x, f.y), min(1.0 - f.x, 1.0 - f.y)));
    vec3 col = mix(vec3(0.1), vec3(0.2, 0.3, 0.6), toggled);
    col = mix(col, vec3(1.0, 0.9, 0.3), held);
    fragColor = vec4(col * border, 1.0);
}
`,
}

// Builtin returns a built-in shader by name.
func Builtin(name string) (Source, bool) {
	code, ok := builtins[name]
	if !ok {
		return Source{}, false
	}
	return Source{Title: name, Image: code}, true
}

// BuiltinNames lists the built-in shaders in alphabetical order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
