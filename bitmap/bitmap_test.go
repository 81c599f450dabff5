package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, c)
		}
	}
	return m
}

func TestPackLength(t *testing.T) {
	for _, tc := range []struct {
		w, h, want int
	}{
		{1, 1, 1},
		{1, 8, 1},
		{1, 9, 2},
		{2, 10, 4},
		{128, 64, 1024},
		{16, 7, 16},
	} {
		t.Run(fmt.Sprintf("%dx%d", tc.w, tc.h), func(t *testing.T) {
			bm, err := Pack(solid(tc.w, tc.h, color.Black), Options{})
			require.NoError(t, err)
			assert.Len(t, bm.Data(), tc.want)
			assert.Equal(t, tc.w, bm.Width())
			assert.Equal(t, tc.h, bm.Height())
		})
	}
}

func TestPackAllBlack(t *testing.T) {
	bm, err := Pack(solid(13, 21, color.Black), Options{})
	require.NoError(t, err)
	for i, b := range bm.Data() {
		assert.Zerof(t, b, "byte %d", i)
	}
}

func TestPackAllWhite(t *testing.T) {
	// 10 rows: the second page only covers rows 8 and 9, so its bytes
	// carry just the two low bits.
	bm, err := Pack(solid(5, 10, color.White), Options{})
	require.NoError(t, err)
	require.Len(t, bm.Data(), 10)
	for x := 0; x < 5; x++ {
		assert.Equal(t, byte(0xff), bm.Data()[x])
		assert.Equal(t, byte(0x03), bm.Data()[5+x])
	}
}

func TestPackSinglePixel(t *testing.T) {
	// 2x10 with only (0,0) lit: bit 0 of page 0, column 0.
	m := solid(2, 10, color.Black)
	m.Set(0, 0, color.White)

	bm, err := Pack(m, Options{})
	require.NoError(t, err)
	require.Len(t, bm.Data(), 4)
	assert.Equal(t, byte(0x01), bm.Data()[0])
	for i := 1; i < 4; i++ {
		assert.Zerof(t, bm.Data()[i], "byte %d", i)
	}
}

func TestPackBitFlip(t *testing.T) {
	const w, h = 17, 29
	rng := rand.New(rand.NewSource(1))

	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if rng.Intn(2) == 1 {
				m.Set(x, y, color.White)
			} else {
				m.Set(x, y, color.Black)
			}
		}
	}

	before, err := Pack(m, Options{})
	require.NoError(t, err)

	x, y := rng.Intn(w), rng.Intn(h)
	if before.Bit(x, y) == 1 {
		m.Set(x, y, color.Black)
	} else {
		m.Set(x, y, color.White)
	}

	after, err := Pack(m, Options{})
	require.NoError(t, err)

	for i := range before.Data() {
		want := before.Data()[i]
		if i == (y/8)*w+x {
			want ^= 1 << (y % 8)
		}
		assert.Equalf(t, want, after.Data()[i], "byte %d", i)
	}
}

func TestPackBitAccessor(t *testing.T) {
	const w, h = 31, 18
	rng := rand.New(rand.NewSource(2))

	lit := make([]bool, w*h)
	m := solid(w, h, color.Black)
	for i := range lit {
		if rng.Intn(2) == 1 {
			lit[i] = true
			m.Set(i%w, i/w, color.White)
		}
	}

	bm, err := Pack(m, Options{})
	require.NoError(t, err)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := byte(0)
			if lit[y*w+x] {
				want = 1
			}
			assert.Equalf(t, want, bm.Bit(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestPackTransparent(t *testing.T) {
	// A fully transparent white pixel is background, not lit.
	m := solid(3, 3, color.White)
	m.SetNRGBA(1, 1, color.NRGBA{0xff, 0xff, 0xff, 0x00})

	bm, err := Pack(m, Options{})
	require.NoError(t, err)
	assert.Equal(t, byte(0), bm.Bit(1, 1))
	assert.Equal(t, byte(1), bm.Bit(0, 0))
}

func TestPackTransparentInverted(t *testing.T) {
	// Inversion must not resurrect transparent pixels.
	m := solid(3, 3, color.White)
	m.SetNRGBA(1, 1, color.NRGBA{0xff, 0xff, 0xff, 0x00})

	bm, err := Pack(m, Options{Invert: true})
	require.NoError(t, err)
	assert.Equal(t, byte(0), bm.Bit(1, 1))
	assert.Equal(t, byte(0), bm.Bit(0, 0))
}

func TestPackInvert(t *testing.T) {
	m := solid(4, 4, color.Black)
	m.Set(2, 2, color.White)

	bm, err := Pack(m, Options{Invert: true})
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := byte(1)
			if x == 2 && y == 2 {
				want = 0
			}
			assert.Equalf(t, want, bm.Bit(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestPackThreshold(t *testing.T) {
	m := solid(2, 1, color.Black)
	m.Set(0, 0, color.NRGBA{0x80, 0x80, 0x80, 0xff})
	m.Set(1, 0, color.NRGBA{0x7e, 0x7e, 0x7e, 0xff})

	bm, err := Pack(m, Options{Threshold: DefaultThreshold})
	require.NoError(t, err)
	assert.Equal(t, byte(1), bm.Bit(0, 0))
	assert.Equal(t, byte(0), bm.Bit(1, 0))
}

func TestPackScaled(t *testing.T) {
	bm, err := Pack(solid(8, 8, color.White), Options{Width: 4, Height: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, bm.Width())
	assert.Equal(t, 4, bm.Height())
	require.Len(t, bm.Data(), 4)
	for _, b := range bm.Data() {
		assert.Equal(t, byte(0x0f), b)
	}
}

func TestPackDitherKeepsPureMono(t *testing.T) {
	// Dithering an image that is already black and white changes
	// nothing since there is no quantization error to diffuse.
	m := solid(8, 8, color.Black)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if (x+y)%2 == 0 {
				m.Set(x, y, color.White)
			}
		}
	}

	bm, err := Pack(m, Options{Mode: ModeDither})
	require.NoError(t, err)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := byte(0)
			if (x+y)%2 == 0 {
				want = 1
			}
			assert.Equalf(t, want, bm.Bit(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestPackQuantize(t *testing.T) {
	m := solid(8, 8, color.NRGBA{0x20, 0x20, 0x20, 0xff})
	for x := 0; x < 8; x++ {
		m.Set(x, 3, color.NRGBA{0xe0, 0xe0, 0xe0, 0xff})
	}

	bm, err := Pack(m, Options{Mode: ModeQuantize})
	require.NoError(t, err)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := byte(0)
			if y == 3 {
				want = 1
			}
			assert.Equalf(t, want, bm.Bit(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestPackInvalidDimensions(t *testing.T) {
	_, err := Pack(image.NewNRGBA(image.Rect(0, 0, 0, 0)), Options{})
	assert.Equal(t, ErrInvalidDimensions, err)
}

func TestPreview(t *testing.T) {
	m := solid(2, 2, color.Black)
	m.Set(0, 0, color.White)

	bm, err := Pack(m, Options{})
	require.NoError(t, err)
	assert.Equal(t, "* \n  \n", bm.Preview())
}
