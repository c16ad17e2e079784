// Package screen emulates a 16x2 character display on a small RGB565
// framebuffer, e.g. /dev/fb1 of an SPI TFT.
package screen

import (
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"github.com/fogleman/gg"

	"github.com/robotalks/linetracer/pkg/hw"
)

// Rows is the number of text rows.
const Rows = 2

// Default panel size.
const (
	DefaultWidth  = 128
	DefaultHeight = 128
)

// Screen implements hw.Display.
type Screen struct {
	FB     io.WriterAt
	Width  int
	Height int

	lock  sync.Mutex
	lines [Rows]string
}

// New creates a Screen on a framebuffer.
func New(fb io.WriterAt, width, height int) *Screen {
	s := &Screen{FB: fb, Width: width, Height: height}
	for n := range s.lines {
		s.lines[n] = hw.FitLine("")
	}
	return s
}

// Open opens a framebuffer device.
func Open(dev string) (*Screen, io.Closer, error) {
	f, err := os.OpenFile(dev, os.O_RDWR, 0666)
	if err != nil {
		return nil, nil, err
	}
	return New(f, DefaultWidth, DefaultHeight), f, nil
}

// WriteLine implements hw.Display and redraws the panel.
func (s *Screen) WriteLine(row int, text string) error {
	if row < 0 || row >= Rows {
		return fmt.Errorf("invalid row %d", row)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lines[row] = hw.FitLine(text)
	_, err := s.FB.WriteAt(RGB565(s.render()), 0)
	return err
}

// Lines returns the current text.
func (s *Screen) Lines() [Rows]string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.lines
}

// render draws row 0 on top like the character LCD.
func (s *Screen) render() image.Image {
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetRGB(0, 0, 0.4)
	dc.Clear()
	dc.SetRGBA(1, 0.9, 0, 1)
	rowHeight := float64(s.Height) / 4
	for n, line := range s.lines {
		dc.DrawString(line, 2, rowHeight*float64(n+1))
	}
	return dc.Image()
}

// RGB565 encodes an image as little-endian RGB565 pixels, row-major.
func RGB565(img image.Image) []byte {
	b := img.Bounds()
	buf := make([]byte, 0, b.Dx()*b.Dy()*2)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			v := uint16(r>>11)<<11 | uint16(g>>10)<<5 | uint16(bl>>11)
			buf = append(buf, byte(v), byte(v>>8))
		}
	}
	return buf
}
