// Package shader compiles and links the GPU programs used by the transitions.
package shader

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide/internal/gles"
)

//go:embed glsl/fold.vert
var foldVertex string

//go:embed glsl/flat.vert
var flatVertex string

//go:embed glsl/texture.frag
var textureFragment string

//go:embed glsl/blend.frag
var blendFragment string

// Program identifies one linked program. Several transitions share a program.
type Program int

const (
	Fold Program = iota // page curl, single texture
	Fade                // two textures blended by alpha
	Flat                // single texture, transform only
	numPrograms
)

func (p Program) String() string {
	switch p {
	case Fold:
		return "fold"
	case Fade:
		return "fade"
	case Flat:
		return "flat"
	}
	return fmt.Sprintf("program(%d)", int(p))
}

// Names of the attributes and uniforms every program declares.
const (
	AttribPosition = "p"
	AttribTexCoord = "a_texcoord"
	UniformTex0    = "texture0"
	UniformMVP     = "mvp_matrix"
)

// Error is a fatal shader failure. Stage is "compile", "link" or "locate".
type Error struct {
	Stage string
	Name  string
	Log   string
}

func (e *Error) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("shader %s failed for %s", e.Stage, e.Name)
	}
	return fmt.Sprintf("shader %s failed for %s: %s", e.Stage, e.Name, e.Log)
}

type source struct {
	name string
	kind uint32
	code string
}

type link struct {
	program  Program
	vertex   int
	fragment int
}

var (
	sources = []source{
		{name: "fold.vert", kind: gles.VertexShader, code: foldVertex},
		{name: "flat.vert", kind: gles.VertexShader, code: flatVertex},
		{name: "texture.frag", kind: gles.FragmentShader, code: textureFragment},
		{name: "blend.frag", kind: gles.FragmentShader, code: blendFragment},
	}
	links = []link{
		{program: Fold, vertex: 0, fragment: 2},
		{program: Fade, vertex: 1, fragment: 3},
		{program: Flat, vertex: 1, fragment: 2},
	}
)

// Locations are the resolved handles for one program and transition.
type Locations struct {
	Position int32
	TexCoord int32
	Uniforms map[string]int32
}

// Uniform returns the location of a resolved uniform, or -1.
func (l Locations) Uniform(name string) int32 {
	if loc, ok := l.Uniforms[name]; ok {
		return loc
	}
	return -1
}

// Registry owns the compiled shader objects and linked programs.
type Registry struct {
	gl       gles.Context
	logger   *log.Logger
	shaders  []uint32
	programs [numPrograms]uint32
	built    bool
}

func NewRegistry(gl gles.Context) *Registry {
	return &Registry{gl: gl, logger: log.WithPrefix("shader")}
}

// Build compiles every shader and links every program. On failure nothing
// stays allocated.
func (r *Registry) Build() error {
	if r.built {
		return nil
	}

	for _, s := range sources {
		id, err := r.compile(s)
		if err != nil {
			r.Release()
			return err
		}
		r.shaders = append(r.shaders, id)
	}

	for _, l := range links {
		id, err := r.link(l)
		if err != nil {
			r.Release()
			return err
		}
		r.programs[l.program] = id
	}

	r.built = true
	r.logger.Debugf("built %d programs from %d shaders", len(links), len(sources))
	return nil
}

func (r *Registry) compile(s source) (uint32, error) {
	id := r.gl.CreateShader(s.kind)
	if id == 0 {
		return 0, &Error{Stage: "compile", Name: s.name, Log: "unable to create shader object"}
	}
	r.gl.ShaderSource(id, s.code)
	r.gl.CompileShader(id)
	if r.gl.GetShaderiv(id, gles.CompileStatus) == 0 {
		info := r.gl.GetShaderInfoLog(id)
		r.gl.DeleteShader(id)
		return 0, &Error{Stage: "compile", Name: s.name, Log: info}
	}
	return id, nil
}

func (r *Registry) link(l link) (uint32, error) {
	id := r.gl.CreateProgram()
	if id == 0 {
		return 0, &Error{Stage: "link", Name: l.program.String(), Log: "unable to create program object"}
	}
	r.gl.AttachShader(id, r.shaders[l.vertex])
	r.gl.AttachShader(id, r.shaders[l.fragment])
	r.gl.LinkProgram(id)
	if r.gl.GetProgramiv(id, gles.LinkStatus) == 0 {
		info := r.gl.GetProgramInfoLog(id)
		r.gl.DeleteProgram(id)
		return 0, &Error{Stage: "link", Name: l.program.String(), Log: info}
	}
	return id, nil
}

// Program returns the GL name of a linked program, 0 before Build.
func (r *Registry) Program(p Program) uint32 {
	if p < 0 || p >= numPrograms {
		return 0
	}
	return r.programs[p]
}

// Locate resolves the common attributes and uniforms plus the extra uniforms
// a transition needs. Any missing handle is a configuration error.
func (r *Registry) Locate(p Program, uniforms []string) (Locations, error) {
	id := r.Program(p)
	if id == 0 {
		return Locations{}, &Error{Stage: "locate", Name: p.String(), Log: "program not built"}
	}

	loc := Locations{
		Position: r.gl.GetAttribLocation(id, AttribPosition),
		TexCoord: r.gl.GetAttribLocation(id, AttribTexCoord),
		Uniforms: map[string]int32{},
	}
	if loc.Position < 0 || loc.TexCoord < 0 {
		return Locations{}, &Error{Stage: "locate", Name: p.String(), Log: "shader attributes not found"}
	}

	for _, name := range append([]string{UniformTex0, UniformMVP}, uniforms...) {
		l := r.gl.GetUniformLocation(id, name)
		if l < 0 {
			return Locations{}, &Error{Stage: "locate", Name: p.String(), Log: fmt.Sprintf("uniform %q not found", name)}
		}
		loc.Uniforms[name] = l
	}
	return loc, nil
}

// Release deletes all programs and shader objects.
func (r *Registry) Release() {
	for i, id := range r.programs {
		if id != 0 {
			r.gl.DeleteProgram(id)
			r.programs[i] = 0
		}
	}
	for _, id := range r.shaders {
		r.gl.DeleteShader(id)
	}
	r.shaders = nil
	r.built = false
}
