package processing

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/label-analyzer/pkg/types"
)

// DefaultImageExtensions are tried in order when looking for the image a
// label file belongs to
var DefaultImageExtensions = []string{".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp", ".webp"}

// DefaultSearchDirs are relative to the label file's directory
var DefaultSearchDirs = []string{".", "..", filepath.Join("..", "images")}

// Processor locates images next to label files and reads their dimensions
type Processor struct {
	extensions []string
	searchDirs []string
}

// NewProcessor creates a processor with the default lookup rules
func NewProcessor() *Processor {
	return &Processor{
		extensions: DefaultImageExtensions,
		searchDirs: DefaultSearchDirs,
	}
}

// NewProcessorWithOptions creates a processor with custom extensions and
// search directories. Empty lists fall back to the defaults.
func NewProcessorWithOptions(opts types.ProcessingOptions) *Processor {
	p := NewProcessor()
	if len(opts.ImageExtensions) > 0 {
		p.extensions = normalizeExtensions(opts.ImageExtensions)
	}
	if len(opts.ImageSearchDirs) > 0 {
		p.searchDirs = opts.ImageSearchDirs
	}
	return p
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// FindImageForLabel looks for an image with the label file's stem in each
// search directory, trying every extension in lower then upper case.
func (p *Processor) FindImageForLabel(labelPath string) (string, bool) {
	dir := filepath.Dir(labelPath)
	stem := strings.TrimSuffix(filepath.Base(labelPath), filepath.Ext(labelPath))

	for _, rel := range p.searchDirs {
		base := filepath.Join(dir, rel)
		for _, ext := range p.extensions {
			for _, e := range []string{ext, strings.ToUpper(ext)} {
				cand := filepath.Join(base, stem+e)
				if info, err := os.Stat(cand); err == nil && !info.IsDir() {
					return cand, true
				}
			}
		}
	}
	return "", false
}

// ImageDimensions reads the pixel size of an image. Only the header is
// decoded when the format is registered; otherwise the whole image is loaded.
func (p *Processor) ImageDimensions(path string) (types.Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Dimensions{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	if cfg, _, err := image.DecodeConfig(f); err == nil {
		return types.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		if _, err := f.Seek(0, 0); err == nil {
			if cfg, err := webp.DecodeConfig(f); err == nil {
				return types.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
			}
		}
	}

	img, err := p.LoadImage(path)
	if err != nil {
		return types.Dimensions{}, err
	}
	b := img.Bounds()
	return types.Dimensions{Width: b.Dx(), Height: b.Dy()}, nil
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// LookupForLabel finds the label's image and reads its size. A missing
// image is not an error: both results are then empty.
func (p *Processor) LookupForLabel(labelPath string) (string, *types.Dimensions, error) {
	imgPath, ok := p.FindImageForLabel(labelPath)
	if !ok {
		return "", nil, nil
	}
	dims, err := p.ImageDimensions(imgPath)
	if err != nil {
		return imgPath, nil, err
	}
	return imgPath, &dims, nil
}
