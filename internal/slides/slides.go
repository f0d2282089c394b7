// Package slides enumerates the images of a slide directory and turns them,
// one at a time, into screen-sized pixel buffers ready for upload.
package slides

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	// register the decoders for the supported formats
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide/internal/types"
)

// Extensions lists the accepted file extensions, compared case-insensitively.
var Extensions = []string{".jpg", ".jpeg", ".png"}

// NoSlidesError means the listing is empty. Presentation should pause.
type NoSlidesError struct {
	Dir string
}

func (e *NoSlidesError) Error() string {
	return fmt.Sprintf("no slides in %s", e.Dir)
}

// DirectoryError means the slide directory cannot be listed.
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("slide directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// DecodeFunc loads an image from disk.
type DecodeFunc func(path string) (image.Image, error)

// Options configure the composited output.
type Options struct {
	Width      int
	Height     int
	Background color.Color
	Scale      types.ScalingMode
	Decode     DecodeFunc
}

// Source holds the slide listing and the cursor into it. It is owned by the
// engine's control thread and is not safe for concurrent use.
type Source struct {
	opts   Options
	logger *log.Logger

	dir    string
	files  []string
	cursor int

	// OnChange is called with the index of every slide handed out by Next.
	OnChange func(index int)
}

func NewSource(opts Options) *Source {
	if opts.Background == nil {
		opts.Background = color.White
	}
	if opts.Scale == "" {
		opts.Scale = types.ScalingModeFit
	}
	if opts.Decode == nil {
		opts.Decode = DecodeFile
	}
	return &Source{opts: opts, logger: log.WithPrefix("slides")}
}

// DecodeFile opens and decodes an image with the registered decoders.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SetSize changes the size of the buffers produced by Next.
func (s *Source) SetSize(width, height int) {
	s.opts.Width, s.opts.Height = width, height
}

// Files returns a copy of the current listing.
func (s *Source) Files() []string { return append([]string(nil), s.files...) }

// Len returns the number of slides in the listing.
func (s *Source) Len() int { return len(s.files) }

// Present reports whether at least one slide is available.
func (s *Source) Present() bool { return len(s.files) > 0 }

// Cursor returns the index of the slide Next will hand out.
func (s *Source) Cursor() int { return s.cursor }

// SetCursor moves the cursor. Out of range values are normalised on the next
// call to Next.
func (s *Source) SetCursor(i int) {
	if i < 0 {
		i = 0
	}
	s.cursor = i
}

// Refresh re-enumerates dir. A missing directory empties the listing and
// returns a *DirectoryError.
func (s *Source) Refresh(dir string) error {
	s.dir = dir
	s.files = nil

	entries, err := os.ReadDir(dir)
	if err != nil {
		return &DirectoryError{Dir: dir, Err: err}
	}

	for _, e := range entries {
		if !isImage(e) {
			continue
		}
		s.files = append(s.files, filepath.Join(dir, e.Name()))
	}
	s.logger.Debugf("found %d slides in %s", len(s.files), dir)
	return nil
}

// Clear forgets the listing until the next Refresh. The cursor is kept.
func (s *Source) Clear() { s.files = nil }

func isImage(e fs.DirEntry) bool {
	if e.IsDir() {
		return false
	}
	if !e.Type().IsRegular() && e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(e.Name()))
	for _, want := range Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// Next composites the slide at the cursor and advances the cursor. A file
// that cannot be decoded yields a plain background slide.
func (s *Source) Next() (*image.RGBA, error) {
	if len(s.files) == 0 {
		return nil, &NoSlidesError{Dir: s.dir}
	}
	if s.cursor >= len(s.files) {
		s.logger.Warnf("cursor %d beyond %d slides, wrapping", s.cursor, len(s.files))
		s.cursor %= len(s.files)
	}

	index := s.cursor
	path := s.files[index]

	img, err := s.opts.Decode(path)
	if err != nil {
		s.logger.Errorf("unable to load %s: %v", path, err)
		img = nil
	}

	if s.OnChange != nil {
		s.OnChange(index)
	}

	buf := Compose(img, s.opts.Width, s.opts.Height, s.opts.Background, s.opts.Scale)
	s.cursor = (s.cursor + 1) % len(s.files)
	return buf, nil
}

// IsRecoverable reports whether err only means there is nothing to show yet.
func IsRecoverable(err error) bool {
	var ns *NoSlidesError
	var de *DirectoryError
	return errors.As(err, &ns) || errors.As(err, &de)
}
