package screen

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

type memFB struct {
	data   []byte
	writes int
}

func (m *memFB) WriteAt(p []byte, off int64) (int, error) {
	if need := int(off) + len(p); need > len(m.data) {
		m.data = append(m.data, make([]byte, need-len(m.data))...)
	}
	copy(m.data[off:], p)
	m.writes++
	return len(p), nil
}

func TestRGB565(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(2, 0, color.RGBA{B: 255, A: 255})
	require.Equal(t, []byte{0x00, 0xf8, 0xe0, 0x07, 0x1f, 0x00}, RGB565(img))
}

func TestWriteLine(t *testing.T) {
	fb := &memFB{}
	s := New(fb, 64, 32)
	require.NoError(t, s.WriteLine(1, "Forward      BL"))
	require.Equal(t, 1, fb.writes)
	require.Len(t, fb.data, 64*32*2)
	require.Equal(t, "Forward      BL ", s.Lines()[1])
	require.Equal(t, "                ", s.Lines()[0])

	require.Error(t, s.WriteLine(2, "x"))
	require.Equal(t, 1, fb.writes)
}
