// Package texture keeps the pair of GPU textures a transition draws from:
// slot 0 holds the slide on screen, slot 1 the slide coming in.
package texture

import (
	"fmt"
	"image"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide/internal/gles"
)

// Source produces the next slide buffer.
type Source interface {
	Next() (*image.RGBA, error)
}

// Pipeline owns the two texture slots.
type Pipeline struct {
	gl     gles.Context
	source Source
	logger *log.Logger

	current  uint32
	incoming uint32
}

func NewPipeline(gl gles.Context, source Source) *Pipeline {
	return &Pipeline{gl: gl, source: source, logger: log.WithPrefix("texture")}
}

// Current is the texture in slot 0.
func (p *Pipeline) Current() uint32 { return p.current }

// Incoming is the texture in slot 1.
func (p *Pipeline) Incoming() uint32 { return p.incoming }

// Live returns how many textures the pipeline holds.
func (p *Pipeline) Live() int {
	n := 0
	if p.current != 0 {
		n++
	}
	if p.incoming != 0 {
		n++
	}
	return n
}

// Seed fills both slots with the next two slides. Existing textures are
// released first.
func (p *Pipeline) Seed() error {
	p.Release()

	first, err := p.source.Next()
	if err != nil {
		return fmt.Errorf("seed current slide: %w", err)
	}
	second, err := p.source.Next()
	if err != nil {
		return fmt.Errorf("seed incoming slide: %w", err)
	}

	p.current = p.upload(first)
	p.incoming = p.upload(second)
	p.logger.Debugf("seeded textures %d and %d", p.current, p.incoming)
	return nil
}

// Advance retires slot 0, promotes slot 1 and loads the next slide into a
// fresh slot 1. When no slide is available nothing changes.
func (p *Pipeline) Advance() error {
	buf, err := p.source.Next()
	if err != nil {
		return err
	}

	fresh := p.upload(buf)
	if p.current != 0 {
		p.gl.DeleteTexture(p.current)
	}
	p.current = p.incoming
	p.incoming = fresh
	return nil
}

// Release deletes both textures.
func (p *Pipeline) Release() {
	if p.current != 0 {
		p.gl.DeleteTexture(p.current)
		p.current = 0
	}
	if p.incoming != 0 {
		p.gl.DeleteTexture(p.incoming)
		p.incoming = 0
	}
}

func (p *Pipeline) upload(buf *image.RGBA) uint32 {
	b := buf.Bounds()
	pix := buf.Pix
	if buf.Stride != b.Dx()*4 {
		pix = make([]byte, 0, b.Dx()*b.Dy()*4)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := buf.PixOffset(b.Min.X, y)
			pix = append(pix, buf.Pix[off:off+b.Dx()*4]...)
		}
	}

	t := p.gl.GenTexture()
	p.gl.BindTexture(gles.Texture2D, t)
	p.gl.TexImage2D(gles.Texture2D, int32(b.Dx()), int32(b.Dy()), pix)
	p.gl.TexParameteri(gles.Texture2D, gles.TextureMinFilter, gles.Nearest)
	p.gl.TexParameteri(gles.Texture2D, gles.TextureMagFilter, gles.Linear)
	p.gl.TexParameteri(gles.Texture2D, gles.TextureWrapS, gles.Repeat)
	p.gl.TexParameteri(gles.Texture2D, gles.TextureWrapT, gles.Repeat)
	return t
}
