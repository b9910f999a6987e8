// Package convert turns static sticker images (WEBP, plus PNG and JPEG) into PNG.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // also accept JPEG-backed stickers
	"image/png"
	"io"
	"strings"
	"sync"

	_ "golang.org/x/image/webp" // registers the "webp" format with image.Decode
)

// MaxDimension bounds the width and height of an accepted image. Telegram
// stickers are at most 512px on a side; anything far larger is not a sticker.
const MaxDimension = 4096

var (
	// ErrEmptyInput is returned when there are no bytes to decode.
	ErrEmptyInput = errors.New("empty image data")
	// ErrTooLarge is returned when the image header declares oversized dimensions.
	ErrTooLarge = errors.New("image dimensions exceed limit")
)

// Converter decodes images and re-encodes them as PNG. It is safe for
// concurrent use; output buffers are pooled.
type Converter struct {
	buffers sync.Pool
	encoder png.Encoder
}

// New creates a Converter using default PNG compression.
func New() *Converter {
	c := &Converter{
		buffers: sync.Pool{
			New: func() any { return new(bytes.Buffer) },
		},
	}
	c.encoder = png.Encoder{
		CompressionLevel: png.DefaultCompression,
		BufferPool:       &encoderBufferPool{},
	}
	return c
}

// Result is a PNG image held in a pooled buffer. Close must be called once the
// bytes are no longer needed; the Result must not be used afterwards.
type Result struct {
	Filename     string
	SourceFormat string
	Width        int
	Height       int

	buf     *bytes.Buffer
	release func(*bytes.Buffer)
	once    sync.Once
}

// Reader returns a reader positioned at the start of the PNG data.
func (r *Result) Reader() io.Reader {
	return bytes.NewReader(r.buf.Bytes())
}

// Bytes returns the PNG data. The slice is only valid until Close.
func (r *Result) Bytes() []byte {
	return r.buf.Bytes()
}

// Size returns the PNG length in bytes.
func (r *Result) Size() int {
	return r.buf.Len()
}

// Close returns the buffer to the pool. It is safe to call more than once.
func (r *Result) Close() error {
	r.once.Do(func() {
		if r.release != nil {
			r.release(r.buf)
		}
	})
	return nil
}

// ToPNG decodes data and encodes it as PNG under the given filename.
// Errors are *StageError values tagged StageDecode or StageEncode.
func (c *Converter) ToPNG(data []byte, filename string) (*Result, error) {
	if len(data) == 0 {
		return nil, Failed(StageDecode, ErrEmptyInput)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, Failed(StageDecode, fmt.Errorf("failed to read image header: %w", err))
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, Failed(StageDecode, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Failed(StageDecode, fmt.Errorf("failed to decode %s image: %w", format, err))
	}

	buf := c.buffers.Get().(*bytes.Buffer)
	buf.Reset()
	if err := c.encoder.Encode(buf, img); err != nil {
		c.putBuffer(buf)
		return nil, Failed(StageEncode, fmt.Errorf("failed to encode png: %w", err))
	}

	bounds := img.Bounds()
	return &Result{
		Filename:     filename,
		SourceFormat: format,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		buf:          buf,
		release:      c.putBuffer,
	}, nil
}

func (c *Converter) putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	c.buffers.Put(buf)
}

// PNGFilename names the output document after the sticker's unique id.
func PNGFilename(fileUniqueID string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, fileUniqueID)
	if name == "" {
		name = "sticker"
	}
	return name + ".png"
}

type encoderBufferPool struct {
	pool sync.Pool
}

func (p *encoderBufferPool) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *encoderBufferPool) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}
