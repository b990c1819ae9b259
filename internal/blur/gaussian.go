// Package blur implements a separable Gaussian smoothing filter over
// rasters of any channel count and depth.
package blur

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/gaussblur/internal/raster"
	"github.com/ivlev/gaussblur/internal/system"
)

type Options struct {
	Size KernelSize
	// SigmaX <= 0 derives sigma from Size.Width. SigmaY <= 0 takes SigmaX,
	// and is derived from Size.Height if that is also <= 0.
	SigmaX  float64
	SigmaY  float64
	Border  Border
	Workers int
}

// DefaultOptions is a 3x3 kernel with derived sigma.
func DefaultOptions() Options {
	return Options{Size: DefaultKernelSize}
}

// Kernels returns the horizontal and vertical weights for o.
func (o Options) Kernels() (kx, ky []float64) {
	sy := o.SigmaY
	if sy <= 0 {
		sy = o.SigmaX
	}
	return GaussianKernel(o.Size.Width, o.SigmaX), GaussianKernel(o.Size.Height, sy)
}

// Gaussian blurs src into a new raster of the same shape. Every channel,
// alpha included, is filtered independently. Results are rounded to the
// nearest sample value and saturated to the raster's depth.
//
// Rows are split into bands processed by up to o.Workers goroutines; the
// output does not depend on the worker count.
func Gaussian(ctx context.Context, src *raster.Raster, o Options) (*raster.Raster, error) {
	if err := o.Size.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dst := raster.NewLike(src)
	w, h, ch := src.Width(), src.Height(), src.Channels
	if w == 0 || h == 0 {
		return dst, nil
	}

	kx, ky := o.Kernels()
	stride := src.Stride()

	// Precomputed source columns/rows for every output position and tap.
	xIdx := taps(o.Border, w, len(kx))
	yIdx := taps(o.Border, h, len(ky))

	tmp := system.GetBuffer(w * h * ch)
	defer system.PutBuffer(tmp)

	horizontal := func(y int) {
		row := src.Pix[y*stride : (y+1)*stride]
		out := tmp[y*stride : (y+1)*stride]
		for x := 0; x < w; x++ {
			cols := xIdx[x*len(kx) : (x+1)*len(kx)]
			for c := 0; c < ch; c++ {
				var sum float64
				for k, sx := range cols {
					sum += kx[k] * float64(row[sx*ch+c])
				}
				out[x*ch+c] = float32(sum)
			}
		}
	}

	maxVal := float64(src.MaxValue())
	vertical := func(y int) {
		rows := yIdx[y*len(ky) : (y+1)*len(ky)]
		out := dst.Pix[y*stride : (y+1)*stride]
		for i := 0; i < stride; i++ {
			var sum float64
			for k, sy := range rows {
				sum += ky[k] * float64(tmp[sy*stride+i])
			}
			out[i] = saturate(sum, maxVal)
		}
	}

	if err := forEachBand(ctx, h, o.Workers, horizontal); err != nil {
		return nil, err
	}
	if err := forEachBand(ctx, h, o.Workers, vertical); err != nil {
		return nil, err
	}
	return dst, nil
}

// taps returns, for each position in [0, n), the k source positions the
// kernel reads, border-resolved.
func taps(b Border, n, k int) []int {
	r := k / 2
	idx := make([]int, n*k)
	for p := 0; p < n; p++ {
		for t := 0; t < k; t++ {
			idx[p*k+t] = b.index(p+t-r, n)
		}
	}
	return idx
}

// forEachBand calls fn for every row in [0, rows), split into contiguous
// bands run on at most workers goroutines.
func forEachBand(ctx context.Context, rows, workers int, fn func(y int)) error {
	if workers < 1 {
		workers = 1
	}
	if workers > rows {
		workers = rows
	}
	band := (rows + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < rows; start += band {
		end := min(start+band, rows)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for y := start; y < end; y++ {
				fn(y)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func saturate(v, maxVal float64) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= maxVal {
		return uint16(maxVal)
	}
	return uint16(v + 0.5)
}
