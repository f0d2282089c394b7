// Package gles describes the subset of OpenGL ES 2.0 the slideshow uses.
//
// The engine only talks to the Context interface so the same code runs on the
// go-gl backend (package gogl) and on the recording fake used by tests
// (package glestest).
package gles

// Enum values as defined by the GLES2 headers.
const (
	DepthBufferBit = 0x00000100
	ColorBufferBit = 0x00004000

	TriangleStrip = 0x0005

	Lequal = 0x0203

	Texture2D   = 0x0DE1
	DepthTest   = 0x0B71
	Blend       = 0x0BE2
	Texture0    = 0x84C0
	Texture1    = 0x84C1
	ArrayBuffer = 0x8892
	StaticDraw  = 0x88E4

	UnsignedByte = 0x1401
	Float        = 0x1406
	RGBA         = 0x1908

	Nearest          = 0x2600
	Linear           = 0x2601
	TextureMagFilter = 0x2800
	TextureMinFilter = 0x2801
	TextureWrapS     = 0x2802
	TextureWrapT     = 0x2803
	Repeat           = 0x2901

	FragmentShader = 0x8B30
	VertexShader   = 0x8B31
	CompileStatus  = 0x8B81
	LinkStatus     = 0x8B82
	InfoLogLength  = 0x8B84
)

// Context is a current GLES2 rendering context. Handles are plain uint32
// names and locations are int32, -1 meaning "not found", as in GL itself.
type Context interface {
	// Init loads the function pointers. It must be called once the EGL
	// context has been made current.
	Init() error

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	ClearDepthf(d float32)
	Clear(mask uint32)
	Enable(capability uint32)
	Disable(capability uint32)
	DepthFunc(fn uint32)

	CreateShader(kind uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	GetAttribLocation(program uint32, name string) int32
	GetUniformLocation(program uint32, name string) int32

	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, data []float32, usage uint32)
	DeleteBuffer(buffer uint32)
	VertexAttribPointer(index uint32, size int32, kind uint32, normalized bool, stride, offset int32)
	EnableVertexAttribArray(index uint32)
	DrawArrays(mode uint32, first, count int32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	TexImage2D(target uint32, width, height int32, pixels []byte)
	DeleteTexture(texture uint32)

	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix4fv(location int32, m [16]float32)
}
