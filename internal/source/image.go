package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSource is a single raster image file. It always has one page.
type ImageSource struct {
	path string
}

func NewImageSource(path string) (*ImageSource, error) {
	if err := checkRegularFile(path); err != nil {
		return nil, err
	}
	return &ImageSource{path: path}, nil
}

func (s *ImageSource) PageCount() int {
	return 1
}

func (s *ImageSource) GetPageDimensions(index int) (float64, float64, error) {
	if err := s.checkPage(index); err != nil {
		return 0, 0, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrDecode, s.path, err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// RenderPage decodes the file. dpi is ignored for raster images.
func (s *ImageSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := s.checkPage(index); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, s.path, err)
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}

func (s *ImageSource) checkPage(index int) error {
	if index != 0 {
		return fmt.Errorf("%w: %d of 1 in %s", ErrPageRange, index, s.path)
	}
	return nil
}

func checkRegularFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrDecode, path)
	}
	return nil
}
