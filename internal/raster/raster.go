// Package raster holds a decoded image as a grid of interleaved samples.
//
// A Raster keeps the channel count and bit depth of the image it was built
// from, so a filter can run over every channel uniformly and the result can
// be turned back into an image of the same shape.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Raster is a width x height grid with Channels samples per pixel.
// Samples are row-major and interleaved; Depth is 8 or 16 bits.
type Raster struct {
	Rect     image.Rectangle
	Channels int
	Depth    int
	Pix      []uint16
}

// New allocates a zeroed raster.
func New(rect image.Rectangle, channels, depth int) *Raster {
	if channels != 1 && channels != 3 && channels != 4 {
		panic(fmt.Sprintf("raster: unsupported channel count %d", channels))
	}
	if depth != 8 && depth != 16 {
		panic(fmt.Sprintf("raster: unsupported depth %d", depth))
	}
	return &Raster{
		Rect:     rect,
		Channels: channels,
		Depth:    depth,
		Pix:      make([]uint16, rect.Dx()*rect.Dy()*channels),
	}
}

// NewLike allocates a zeroed raster with the same shape as r.
func NewLike(r *Raster) *Raster {
	return New(r.Rect, r.Channels, r.Depth)
}

func (r *Raster) Width() int  { return r.Rect.Dx() }
func (r *Raster) Height() int { return r.Rect.Dy() }

// Stride is the number of samples in one row.
func (r *Raster) Stride() int { return r.Rect.Dx() * r.Channels }

// MaxValue is the largest sample value for the raster's depth.
func (r *Raster) MaxValue() uint16 {
	if r.Depth == 16 {
		return 0xffff
	}
	return 0xff
}

// At returns channel c of the pixel at (x, y), relative to Rect.Min.
func (r *Raster) At(x, y, c int) uint16 {
	return r.Pix[y*r.Stride()+x*r.Channels+c]
}

func (r *Raster) Set(x, y, c int, v uint16) {
	r.Pix[y*r.Stride()+x*r.Channels+c] = v
}

// Bytes is the raster's working-set size in memory.
func (r *Raster) Bytes() uint64 {
	return uint64(len(r.Pix)) * 2
}

func (r *Raster) String() string {
	return fmt.Sprintf("%dx%d c%d d%d", r.Width(), r.Height(), r.Channels, r.Depth)
}

// FromImage converts img into a raster. Gray images give one channel,
// opaque color images three, and images with any translucency four.
// 16-bit sources keep 16-bit samples.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()

	switch src := img.(type) {
	case *image.Gray:
		r := New(b, 1, 8)
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()]
			for x, v := range row {
				r.Pix[y*b.Dx()+x] = uint16(v)
			}
		}
		return r

	case *image.Gray16:
		r := New(b, 1, 16)
		for y := 0; y < b.Dy(); y++ {
			i := y * src.Stride
			for x := 0; x < b.Dx(); x++ {
				r.Pix[y*b.Dx()+x] = uint16(src.Pix[i])<<8 | uint16(src.Pix[i+1])
				i += 2
			}
		}
		return r

	case *image.NRGBA:
		channels := 4
		if src.Opaque() {
			channels = 3
		}
		r := New(b, channels, 8)
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				i := y*src.Stride + x*4
				for c := 0; c < channels; c++ {
					r.Set(x, y, c, uint16(src.Pix[i+c]))
				}
			}
		}
		return r

	case *image.NRGBA64, *image.RGBA64:
		return fromColorModel(img, color.NRGBA64Model, 16)
	}

	if isOpaque(img) {
		rgba := image.NewRGBA(b)
		draw.Draw(rgba, b, img, b.Min, draw.Src)
		r := New(b, 3, 8)
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				i := y*rgba.Stride + x*4
				r.Set(x, y, 0, uint16(rgba.Pix[i]))
				r.Set(x, y, 1, uint16(rgba.Pix[i+1]))
				r.Set(x, y, 2, uint16(rgba.Pix[i+2]))
			}
		}
		return r
	}
	return fromColorModel(img, color.NRGBAModel, 8)
}

// fromColorModel walks img pixel by pixel through a non-premultiplied model.
func fromColorModel(img image.Image, model color.Model, depth int) *Raster {
	b := img.Bounds()
	channels := 4
	if isOpaque(img) {
		channels = 3
	}
	r := New(b, channels, depth)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := model.Convert(img.At(b.Min.X+x, b.Min.Y+y))
			var s [4]uint16
			switch v := c.(type) {
			case color.NRGBA:
				s = [4]uint16{uint16(v.R), uint16(v.G), uint16(v.B), uint16(v.A)}
			case color.NRGBA64:
				s = [4]uint16{v.R, v.G, v.B, v.A}
			}
			for ch := 0; ch < channels; ch++ {
				r.Set(x, y, ch, s[ch])
			}
		}
	}
	return r
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

// Image converts the raster back into a standard library image of the
// matching kind: Gray, Gray16, RGBA (opaque), NRGBA, RGBA64 (opaque) or
// NRGBA64.
func (r *Raster) Image() image.Image {
	w, h := r.Width(), r.Height()

	switch {
	case r.Channels == 1 && r.Depth == 8:
		img := image.NewGray(r.Rect)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.Pix[y*img.Stride+x] = uint8(r.At(x, y, 0))
			}
		}
		return img

	case r.Channels == 1:
		img := image.NewGray16(r.Rect)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := r.At(x, y, 0)
				i := y*img.Stride + x*2
				img.Pix[i] = uint8(v >> 8)
				img.Pix[i+1] = uint8(v)
			}
		}
		return img

	case r.Depth == 8:
		var img draw.Image
		var pix []uint8
		var stride int
		if r.Channels == 3 {
			rgba := image.NewRGBA(r.Rect)
			img, pix, stride = rgba, rgba.Pix, rgba.Stride
		} else {
			nrgba := image.NewNRGBA(r.Rect)
			img, pix, stride = nrgba, nrgba.Pix, nrgba.Stride
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*stride + x*4
				pix[i+3] = 0xff
				for c := 0; c < r.Channels; c++ {
					pix[i+c] = uint8(r.At(x, y, c))
				}
			}
		}
		return img

	default:
		var img draw.Image
		var pix []uint8
		var stride int
		if r.Channels == 3 {
			rgba := image.NewRGBA64(r.Rect)
			img, pix, stride = rgba, rgba.Pix, rgba.Stride
		} else {
			nrgba := image.NewNRGBA64(r.Rect)
			img, pix, stride = nrgba, nrgba.Pix, nrgba.Stride
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*stride + x*8
				pix[i+6], pix[i+7] = 0xff, 0xff
				for c := 0; c < r.Channels; c++ {
					v := r.At(x, y, c)
					pix[i+2*c] = uint8(v >> 8)
					pix[i+2*c+1] = uint8(v)
				}
			}
		}
		return img
	}
}
