package gfx

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed shaders/*.glsl
var shaderFS embed.FS

// Stage is a shader stage.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
)

// ShaderSource loads the embedded source for a logical program name.
// The stages resolve to "<name>.vertex.glsl" and "<name>.fragment.glsl".
func ShaderSource(name string, stage Stage) (string, error) {
	data, err := shaderFS.ReadFile("shaders/" + name + "." + string(stage) + ".glsl")
	if err != nil {
		return "", fmt.Errorf("failed to load %s shader %q: %w", stage, name, err)
	}
	return string(data), nil
}

// Preprocess injects defines after the first line of src. The first line
// is kept in place so the #version directive stays first, and a #line
// directive resets numbering so compiler errors match the file.
func Preprocess(src string, defines []string) string {
	first, rest, _ := strings.Cut(src, "\n")

	var b strings.Builder
	b.Grow(len(src) + 16*len(defines) + 10)
	b.WriteString(first)
	b.WriteString("\n")
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d)
		b.WriteString("\n")
	}
	b.WriteString("#line 1\n")
	b.WriteString(rest)
	return b.String()
}

// ProgramSources returns both preprocessed stages of a program.
func ProgramSources(name string, defines []string) (vertex, fragment string, err error) {
	vs, err := ShaderSource(name, StageVertex)
	if err != nil {
		return "", "", err
	}
	fs, err := ShaderSource(name, StageFragment)
	if err != nil {
		return "", "", err
	}
	return Preprocess(vs, defines), Preprocess(fs, defines), nil
}
