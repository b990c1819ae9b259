// Package analyzer measures how much high-frequency detail an image has.
package analyzer

import (
	"image"
	"image/color"
	"math"
)

// Sharpness is the Tenengrad focus measure: the mean squared Sobel gradient
// over the interior of img, computed on luma. A flat field scores 0 and any
// low-pass filter lowers the score. Images narrower or shorter than 3
// pixels score 0.
func Sharpness(img image.Image) float64 {
	gray := toGrayscale(img)
	bounds := gray.Bounds()
	if bounds.Dx() < 3 || bounds.Dy() < 3 {
		return 0
	}

	var total float64
	var n int
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			gx, gy := sobel(gray, x, y)
			total += gx*gx + gy*gy
			n++
		}
	}
	return total / float64(n)
}

// EdgeRatio is the fraction of interior pixels whose gradient magnitude
// exceeds threshold.
func EdgeRatio(img image.Image, threshold float64) float64 {
	gray := toGrayscale(img)
	bounds := gray.Bounds()
	if bounds.Dx() < 3 || bounds.Dy() < 3 {
		return 0
	}

	var edges, n int
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			gx, gy := sobel(gray, x, y)
			if math.Hypot(gx, gy) > threshold {
				edges++
			}
			n++
		}
	}
	return float64(edges) / float64(n)
}

// toGrayscale converts an image to grayscale
func toGrayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}

	return gray
}

// Sobel kernels
var (
	sobelX = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// sobel applies both kernels at an interior pixel.
func sobel(gray *image.Gray, x, y int) (float64, float64) {
	var sumX, sumY float64
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
			sumX += pixel * float64(sobelX[ky+1][kx+1])
			sumY += pixel * float64(sobelY[ky+1][kx+1])
		}
	}
	return sumX, sumY
}
