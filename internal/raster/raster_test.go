package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromImageLayout(t *testing.T) {
	rect := image.Rect(0, 0, 4, 3)

	translucent := image.NewNRGBA(rect)
	translucent.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	opaqueNRGBA := image.NewNRGBA(rect)
	for i := 3; i < len(opaqueNRGBA.Pix); i += 4 {
		opaqueNRGBA.Pix[i] = 0xff
	}

	tests := []struct {
		name     string
		img      image.Image
		channels int
		depth    int
		kind     string
	}{
		{"gray", image.NewGray(rect), 1, 8, "*image.Gray"},
		{"gray16", image.NewGray16(rect), 1, 16, "*image.Gray16"},
		{"ycbcr", image.NewYCbCr(rect, image.YCbCrSubsampleRatio420), 3, 8, "*image.RGBA"},
		{"opaque nrgba", opaqueNRGBA, 3, 8, "*image.RGBA"},
		{"translucent nrgba", translucent, 4, 8, "*image.NRGBA"},
		{"transparent rgba", image.NewRGBA(rect), 4, 8, "*image.NRGBA"},
		{"transparent nrgba64", image.NewNRGBA64(rect), 4, 16, "*image.NRGBA64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromImage(tt.img)
			assert.Equal(t, tt.channels, r.Channels)
			assert.Equal(t, tt.depth, r.Depth)
			assert.Equal(t, rect, r.Rect)
			assert.Len(t, r.Pix, 4*3*tt.channels)

			out := r.Image()
			assert.Equal(t, rect, out.Bounds())
			assert.Equal(t, tt.kind, typeName(out))
		})
	}
}

func TestRoundTripPreservesPixels(t *testing.T) {
	rect := image.Rect(0, 0, 5, 4)

	t.Run("gray", func(t *testing.T) {
		img := image.NewGray(rect)
		for i := range img.Pix {
			img.Pix[i] = uint8(i * 7)
		}
		assert.Equal(t, img.Pix, FromImage(img).Image().(*image.Gray).Pix)
	})

	t.Run("gray16", func(t *testing.T) {
		img := image.NewGray16(rect)
		for y := 0; y < 4; y++ {
			for x := 0; x < 5; x++ {
				img.SetGray16(x, y, color.Gray16{Y: uint16(x*4000 + y*300 + 1)})
			}
		}
		assert.Equal(t, img.Pix, FromImage(img).Image().(*image.Gray16).Pix)
	})

	t.Run("nrgba", func(t *testing.T) {
		img := image.NewNRGBA(rect)
		for i := range img.Pix {
			img.Pix[i] = uint8(i*13 + 1)
		}
		assert.Equal(t, img.Pix, FromImage(img).Image().(*image.NRGBA).Pix)
	})

	t.Run("opaque rgba", func(t *testing.T) {
		img := image.NewRGBA(rect)
		for y := 0; y < 4; y++ {
			for x := 0; x < 5; x++ {
				img.SetRGBA(x, y, color.RGBA{R: uint8(x * 50), G: uint8(y * 60), B: 7, A: 0xff})
			}
		}
		assert.Equal(t, img.Pix, FromImage(img).Image().(*image.RGBA).Pix)
	})
}

func TestSubImageOffset(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 6, 6))
	img.SetGray(3, 4, color.Gray{Y: 200})
	sub := img.SubImage(image.Rect(2, 2, 5, 5)).(*image.Gray)

	r := FromImage(sub)
	assert.Equal(t, 3, r.Width())
	assert.Equal(t, 3, r.Height())
	assert.EqualValues(t, 200, r.At(1, 2, 0))

	out := r.Image().(*image.Gray)
	assert.Equal(t, sub.Bounds(), out.Bounds())
	assert.EqualValues(t, 200, out.GrayAt(3, 4).Y)
}

func TestAccessors(t *testing.T) {
	r := New(image.Rect(0, 0, 3, 2), 4, 16)
	assert.Equal(t, 12, r.Stride())
	assert.EqualValues(t, 0xffff, r.MaxValue())
	assert.EqualValues(t, 48, r.Bytes())

	r.Set(2, 1, 3, 42)
	assert.EqualValues(t, 42, r.At(2, 1, 3))
	assert.EqualValues(t, 42, r.Pix[len(r.Pix)-1])

	like := NewLike(r)
	assert.Equal(t, r.Rect, like.Rect)
	assert.Equal(t, r.Channels, like.Channels)
	assert.Equal(t, "3x2 c4 d16", like.String())
}

func TestNewRejectsBadShape(t *testing.T) {
	require.Panics(t, func() { New(image.Rect(0, 0, 1, 1), 2, 8) })
	require.Panics(t, func() { New(image.Rect(0, 0, 1, 1), 3, 12) })
}

func typeName(img image.Image) string {
	switch img.(type) {
	case *image.Gray:
		return "*image.Gray"
	case *image.Gray16:
		return "*image.Gray16"
	case *image.RGBA:
		return "*image.RGBA"
	case *image.NRGBA:
		return "*image.NRGBA"
	case *image.RGBA64:
		return "*image.RGBA64"
	case *image.NRGBA64:
		return "*image.NRGBA64"
	}
	return "other"
}
