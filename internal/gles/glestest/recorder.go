// Package glestest provides a recording gles.Context for tests.
package glestest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/matjam/smoothslide/internal/gles"
)

// Draw is one DrawArrays call together with the state it was issued with.
type Draw struct {
	Program  uint32
	Texture  map[uint32]uint32 // texture unit -> bound texture
	Matrix   [16]float32
	Count    int32
	Depth    bool
	Uniforms map[string]float32
}

type shaderObj struct {
	kind   uint32
	source string
}

type programObj struct {
	shaders []uint32
	linked  bool
	locs    map[string]int32
}

// Recorder implements gles.Context in memory. It tracks object lifetimes so
// tests can assert that nothing leaks, and compiles "shaders" by scanning
// their sources for identifiers, which lets locations resolve only for names
// that the GLSL really declares.
type Recorder struct {
	// FailCompile makes compilation fail for shaders whose source contains
	// the given substring.
	FailCompile string
	// FailLink makes linking fail for every program.
	FailLink bool
	// Hide makes attribute/uniform lookups for these names return -1.
	Hide map[string]bool

	Calls []string
	Draws []Draw

	next       uint32
	shaders    map[uint32]*shaderObj
	programs   map[uint32]*programObj
	buffers    map[uint32][]float32
	textures   map[uint32][2]int32
	params     map[uint32]map[uint32]int32
	current    uint32
	unit       uint32
	bound      map[uint32]uint32
	boundTex   uint32
	depth      bool
	uniforms   map[uint32]map[int32]float32
	matrix     [16]float32
	initCalled int
}

var _ gles.Context = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{
		shaders:  map[uint32]*shaderObj{},
		programs: map[uint32]*programObj{},
		buffers:  map[uint32][]float32{},
		textures: map[uint32][2]int32{},
		params:   map[uint32]map[uint32]int32{},
		bound:    map[uint32]uint32{},
		uniforms: map[uint32]map[int32]float32{},
	}
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) name() uint32 {
	r.next++
	return r.next
}

// LiveTextures returns the names of all textures not yet deleted, sorted.
func (r *Recorder) LiveTextures() []uint32 {
	out := make([]uint32, 0, len(r.textures))
	for t := range r.textures {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TextureSize returns the dimensions uploaded to a texture.
func (r *Recorder) TextureSize(t uint32) (int32, int32) {
	s := r.textures[t]
	return s[0], s[1]
}

// TextureParam returns a TexParameteri value set on a texture.
func (r *Recorder) TextureParam(t, pname uint32) int32 { return r.params[t][pname] }

func (r *Recorder) LivePrograms() int { return len(r.programs) }
func (r *Recorder) LiveShaders() int  { return len(r.shaders) }
func (r *Recorder) LiveBuffers() int  { return len(r.buffers) }

// Buffer returns the data uploaded to a buffer.
func (r *Recorder) Buffer(b uint32) []float32 { return r.buffers[b] }

// CurrentProgram is the program last passed to UseProgram.
func (r *Recorder) CurrentProgram() uint32 { return r.current }

// InitCalls counts calls to Init.
func (r *Recorder) InitCalls() int { return r.initCalled }

// Count returns how many recorded calls start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls and draws but keeps object state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
}

func (r *Recorder) Init() error {
	r.initCalled++
	r.record("Init")
	return nil
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport %d %d %d %d", x, y, width, height)
}

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) {
	r.record("ClearColor %.2f %.2f %.2f %.2f", cr, cg, cb, ca)
}

func (r *Recorder) ClearDepthf(d float32) { r.record("ClearDepthf %.2f", d) }

func (r *Recorder) Clear(mask uint32) {
	r.record("Clear %#x", mask)
}

func (r *Recorder) Enable(capability uint32) {
	if capability == gles.DepthTest {
		r.depth = true
	}
	r.record("Enable %#x", capability)
}

func (r *Recorder) Disable(capability uint32) {
	if capability == gles.DepthTest {
		r.depth = false
	}
	r.record("Disable %#x", capability)
}

func (r *Recorder) DepthFunc(fn uint32) { r.record("DepthFunc %#x", fn) }

func (r *Recorder) CreateShader(kind uint32) uint32 {
	s := r.name()
	r.shaders[s] = &shaderObj{kind: kind}
	r.record("CreateShader %#x", kind)
	return s
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	if s, ok := r.shaders[shader]; ok {
		s.source = source
	}
}

func (r *Recorder) CompileShader(shader uint32) { r.record("CompileShader %d", shader) }

func (r *Recorder) GetShaderiv(shader uint32, pname uint32) int32 {
	s, ok := r.shaders[shader]
	if !ok {
		return 0
	}
	switch pname {
	case gles.CompileStatus:
		if r.FailCompile != "" && strings.Contains(s.source, r.FailCompile) {
			return 0
		}
		return 1
	case gles.InfoLogLength:
		return int32(len(r.GetShaderInfoLog(shader)) + 1)
	}
	return 0
}

func (r *Recorder) GetShaderInfoLog(shader uint32) string {
	s, ok := r.shaders[shader]
	if ok && r.FailCompile != "" && strings.Contains(s.source, r.FailCompile) {
		return "0:1: syntax error"
	}
	return ""
}

func (r *Recorder) DeleteShader(shader uint32) {
	delete(r.shaders, shader)
	r.record("DeleteShader %d", shader)
}

func (r *Recorder) CreateProgram() uint32 {
	p := r.name()
	r.programs[p] = &programObj{}
	r.record("CreateProgram")
	return p
}

func (r *Recorder) AttachShader(program, shader uint32) {
	if p, ok := r.programs[program]; ok {
		p.shaders = append(p.shaders, shader)
	}
}

var identifier = regexp.MustCompile(`\b(?:attribute|uniform)\s+\w+\s+([\w\s,]+);`)

func (r *Recorder) LinkProgram(program uint32) {
	p, ok := r.programs[program]
	if !ok {
		return
	}
	r.record("LinkProgram %d", program)
	if r.FailLink {
		return
	}
	p.linked = true
	p.locs = map[string]int32{}
	next := int32(0)
	for _, sh := range p.shaders {
		s, ok := r.shaders[sh]
		if !ok {
			continue
		}
		for _, m := range identifier.FindAllStringSubmatch(s.source, -1) {
			for _, n := range strings.Split(m[1], ",") {
				n = strings.TrimSpace(n)
				if _, seen := p.locs[n]; n != "" && !seen {
					p.locs[n] = next
					next++
				}
			}
		}
	}
}

func (r *Recorder) GetProgramiv(program uint32, pname uint32) int32 {
	p, ok := r.programs[program]
	if !ok {
		return 0
	}
	switch pname {
	case gles.LinkStatus:
		if p.linked {
			return 1
		}
		return 0
	case gles.InfoLogLength:
		return int32(len(r.GetProgramInfoLog(program)) + 1)
	}
	return 0
}

func (r *Recorder) GetProgramInfoLog(program uint32) string {
	if p, ok := r.programs[program]; ok && !p.linked {
		return "error: varying v_texcoord not written by vertex shader"
	}
	return ""
}

func (r *Recorder) DeleteProgram(program uint32) {
	delete(r.programs, program)
	r.record("DeleteProgram %d", program)
}

func (r *Recorder) UseProgram(program uint32) {
	r.current = program
	r.record("UseProgram %d", program)
}

func (r *Recorder) lookup(program uint32, name string) int32 {
	p, ok := r.programs[program]
	if !ok || !p.linked || r.Hide[name] {
		return -1
	}
	if l, ok := p.locs[name]; ok {
		return l
	}
	return -1
}

func (r *Recorder) GetAttribLocation(program uint32, name string) int32 {
	return r.lookup(program, name)
}

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	return r.lookup(program, name)
}

func (r *Recorder) GenBuffer() uint32 {
	b := r.name()
	r.buffers[b] = nil
	r.record("GenBuffer")
	return b
}

func (r *Recorder) BindBuffer(target, buffer uint32) { r.bound[target] = buffer }

func (r *Recorder) BufferData(target uint32, data []float32, usage uint32) {
	b := r.bound[target]
	if _, ok := r.buffers[b]; ok {
		r.buffers[b] = append([]float32(nil), data...)
	}
	r.record("BufferData %d", len(data))
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	delete(r.buffers, buffer)
	r.record("DeleteBuffer %d", buffer)
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, kind uint32, normalized bool, stride, offset int32) {
	r.record("VertexAttribPointer %d %d %d %d", index, size, stride, offset)
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {}

func (r *Recorder) DrawArrays(mode uint32, first, count int32) {
	tex := map[uint32]uint32{}
	for unit, t := range r.unitTextures() {
		tex[unit] = t
	}
	u := map[string]float32{}
	if p, ok := r.programs[r.current]; ok {
		for n, l := range p.locs {
			if v, ok := r.uniforms[r.current][l]; ok {
				u[n] = v
			}
		}
	}
	r.Draws = append(r.Draws, Draw{
		Program:  r.current,
		Texture:  tex,
		Matrix:   r.matrix,
		Count:    count,
		Depth:    r.depth,
		Uniforms: u,
	})
	r.record("DrawArrays %d %d", first, count)
}

func (r *Recorder) unitTextures() map[uint32]uint32 {
	out := map[uint32]uint32{}
	for k, v := range r.bound {
		if k >= gles.Texture0 && k < gles.Texture0+32 {
			out[k-gles.Texture0] = v
		}
	}
	return out
}

func (r *Recorder) GenTexture() uint32 {
	t := r.name()
	r.textures[t] = [2]int32{}
	r.params[t] = map[uint32]int32{}
	r.record("GenTexture")
	return t
}

func (r *Recorder) ActiveTexture(unit uint32) { r.unit = unit - gles.Texture0 }

func (r *Recorder) BindTexture(target, texture uint32) {
	r.boundTex = texture
	r.bound[gles.Texture0+r.unit] = texture
}

func (r *Recorder) TexParameteri(target, pname uint32, param int32) {
	if p, ok := r.params[r.boundTex]; ok {
		p[pname] = param
	}
}

func (r *Recorder) TexImage2D(target uint32, width, height int32, pixels []byte) {
	if _, ok := r.textures[r.boundTex]; ok {
		r.textures[r.boundTex] = [2]int32{width, height}
	}
	r.record("TexImage2D %d %dx%d", r.boundTex, width, height)
}

func (r *Recorder) DeleteTexture(texture uint32) {
	delete(r.textures, texture)
	delete(r.params, texture)
	r.record("DeleteTexture %d", texture)
}

func (r *Recorder) setUniform(location int32, v float32) {
	if location < 0 {
		return
	}
	u, ok := r.uniforms[r.current]
	if !ok {
		u = map[int32]float32{}
		r.uniforms[r.current] = u
	}
	u[location] = v
}

func (r *Recorder) Uniform1i(location int32, v int32) { r.setUniform(location, float32(v)) }

func (r *Recorder) Uniform1f(location int32, v float32) { r.setUniform(location, v) }

// Uniform4f keeps only the y component, which is the one the fold apex moves.
func (r *Recorder) Uniform4f(location int32, x, y, z, w float32) { r.setUniform(location, y) }

func (r *Recorder) UniformMatrix4fv(location int32, m [16]float32) {
	r.matrix = m
}
