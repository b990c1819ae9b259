// Package source opens rasters from disk and writes them back.
package source

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

var (
	ErrDecode            = errors.New("cannot decode image")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrPageRange         = errors.New("page out of range")
)

// Source is something that yields one or more decoded rasters.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a Source by file extension: PDF documents go through MuPDF,
// everything else through the registered image codecs.
func Open(path string) (Source, error) {
	if IsPDF(path) {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	if err := checkRegularFile(path); err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	if err := f.checkPage(index); err != nil {
		return 0, 0, err
	}
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := f.checkPage(index); err != nil {
		return nil, err
	}
	img, err := f.doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("%w: %s page %d: %v", ErrDecode, f.path, index, err)
	}
	return img, nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

func (f *FitzPDFSource) checkPage(index int) error {
	if index < 0 || index >= f.PageCount() {
		return fmt.Errorf("%w: %d of %d in %s", ErrPageRange, index, f.PageCount(), f.path)
	}
	return nil
}
