// Package engine wires decoding, blurring and encoding into one pipeline.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/ivlev/gaussblur/internal/analyzer"
	"github.com/ivlev/gaussblur/internal/blur"
	"github.com/ivlev/gaussblur/internal/config"
	"github.com/ivlev/gaussblur/internal/logging"
	"github.com/ivlev/gaussblur/internal/raster"
	"github.com/ivlev/gaussblur/internal/source"
	"github.com/ivlev/gaussblur/internal/system"
)

// Sobel magnitude above which a pixel counts as an edge in the debug report.
const edgeThreshold = 128

// Applier reads an image, blurs it and writes the result.
type Applier struct {
	Config *config.Config
	Log    *logging.Logger
	// MemoryProbe reports available memory. Defaults to system.AvailableMemory.
	MemoryProbe func() (uint64, error)
}

func NewApplier(cfg *config.Config, log *logging.Logger) *Applier {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Applier{
		Config:      cfg,
		Log:         log,
		MemoryProbe: system.AvailableMemory,
	}
}

// Apply blurs the image at inputPath with a Gaussian kernel of the given
// size and writes it to outputPath. The output format follows the output
// extension. outputPath is left untouched unless every step succeeds.
func (a *Applier) Apply(ctx context.Context, inputPath, outputPath string, size blur.KernelSize) error {
	start := time.Now()
	log := a.Log.With("input", inputPath, "output", outputPath)

	if err := size.Validate(); err != nil {
		return err
	}
	border, err := blur.ParseBorder(a.Config.Border)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	enc, err := a.encoder(outputPath)
	if err != nil {
		return err
	}

	decodeStart := time.Now()
	img, err := a.decode(inputPath)
	if err != nil {
		return err
	}
	src := raster.FromImage(img)
	decodeTime := time.Since(decodeStart)
	log.Debug("decoded input", "raster", src.String())

	// Source, float32 scratch and destination are alive at once.
	need := src.Bytes()*2 + uint64(len(src.Pix))*4
	if err := system.CheckMemory(need, a.probe()); err != nil {
		if !errors.Is(err, system.ErrMemoryProbe) {
			return err
		}
		log.Warn("skipping memory check", "error", err)
	}

	opts := blur.Options{
		Size:    size,
		Border:  border,
		Workers: system.ResolveWorkers(a.Config.Workers),
	}
	blurStart := time.Now()
	dst, err := blur.Gaussian(ctx, src, opts)
	if err != nil {
		return fmt.Errorf("blur %s: %w", inputPath, err)
	}
	blurTime := time.Since(blurStart)

	if err := ctx.Err(); err != nil {
		return err
	}
	encodeStart := time.Now()
	out := dst.Image()
	if err := source.WriteFile(outputPath, out, enc); err != nil {
		return err
	}
	encodeTime := time.Since(encodeStart)

	if log.Enabled(ctx, slog.LevelDebug) {
		kx, ky := opts.Kernels()
		log.Debug("blur report",
			"size", size.String(),
			"dims", fmt.Sprintf("%dx%d", src.Width(), src.Height()),
			"channels", src.Channels,
			"depth", src.Depth,
			"workers", opts.Workers,
			"border", border.String(),
			"kernel_x", kx,
			"kernel_y", ky,
			"sharpness_before", analyzer.Sharpness(img),
			"sharpness_after", analyzer.Sharpness(out),
			"edges_before", analyzer.EdgeRatio(img, edgeThreshold),
			"edges_after", analyzer.EdgeRatio(out, edgeThreshold),
			"decode", decodeTime,
			"blur", blurTime,
			"encode", encodeTime,
			"total", time.Since(start),
		)
	}
	return nil
}

func (a *Applier) encoder(outputPath string) (source.Encoder, error) {
	compression, err := source.ParsePNGCompression(a.Config.PNGCompression)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return source.EncoderFor(outputPath, source.EncodeOptions{
		JPEGQuality:    a.Config.JPEGQuality,
		PNGCompression: compression,
	})
}

func (a *Applier) decode(inputPath string) (image.Image, error) {
	src, err := source.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	page, dpi := 0, a.Config.PDF.DPI
	if source.IsPDF(inputPath) {
		page = a.Config.PDF.Page
	}
	return src.RenderPage(page, dpi)
}

func (a *Applier) probe() func() (uint64, error) {
	if a.MemoryProbe != nil {
		return a.MemoryProbe
	}
	return system.AvailableMemory
}

// Apply blurs inputPath into outputPath with default settings. sizes
// optionally overrides the 3x3 kernel; at most one may be given.
func Apply(inputPath, outputPath string, sizes ...blur.KernelSize) error {
	size := blur.DefaultKernelSize
	switch len(sizes) {
	case 0:
	case 1:
		size = sizes[0]
	default:
		return fmt.Errorf("%w: got %d sizes, want at most one", blur.ErrInvalidKernelSize, len(sizes))
	}
	return NewApplier(config.Default(), logging.Discard()).Apply(context.Background(), inputPath, outputPath, size)
}
