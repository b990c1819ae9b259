package blur

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidKernelSize = errors.New("invalid kernel size")

// KernelSize is the spatial extent of the blur. Both dimensions must be
// positive and odd so the kernel has a center tap.
type KernelSize struct {
	Width  int
	Height int
}

// DefaultKernelSize is a light 3x3 smoothing.
var DefaultKernelSize = KernelSize{Width: 3, Height: 3}

func (k KernelSize) Validate() error {
	if k.Width <= 0 || k.Width%2 == 0 || k.Height <= 0 || k.Height%2 == 0 {
		return fmt.Errorf("%w: %dx%d, both dimensions must be positive and odd", ErrInvalidKernelSize, k.Width, k.Height)
	}
	return nil
}

func (k KernelSize) String() string {
	return fmt.Sprintf("%dx%d", k.Width, k.Height)
}

// AutoSigma is the sigma used when none is given for a kernel of size k.
func AutoSigma(k int) float64 {
	return 0.3*((float64(k)-1)*0.5-1) + 0.8
}

// Binomial approximations used instead of sampling the Gaussian when sigma
// is derived and the kernel is small. The 3-tap one is the classic 1-2-1.
var smallKernels = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// GaussianKernel returns k normalized 1D weights. sigma <= 0 derives sigma
// from k; for k <= 7 that selects the fixed binomial table.
func GaussianKernel(k int, sigma float64) []float64 {
	weights := make([]float64, k)

	if sigma <= 0 {
		if fixed, ok := smallKernels[k]; ok {
			copy(weights, fixed)
			return weights
		}
		sigma = AutoSigma(k)
	}

	scale := -0.5 / (sigma * sigma)
	center := float64(k-1) * 0.5
	sum := 0.0
	for i := range weights {
		x := float64(i) - center
		weights[i] = math.Exp(scale * x * x)
		sum += weights[i]
	}

	for i := range weights {
		weights[i] /= sum
	}
	return weights
}
