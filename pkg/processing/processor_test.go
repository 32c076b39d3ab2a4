package processing

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/menta2k/label-analyzer/pkg/types"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, createTestImage(width, height)); err != nil {
		t.Fatal(err)
	}
}

func writeLabel(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("0 0.5 0.5 0.1 0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindImageForLabel(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		image   string
		wantHit bool
	}{
		{"same directory", "a/img1.txt", "a/img1.png", true},
		{"parent directory", "a/labels/img2.txt", "a/img2.png", true},
		{"sibling images directory", "a/labels/img3.txt", "a/images/img3.png", true},
		{"upper case extension", "a/img4.txt", "a/img4.PNG", true},
		{"different stem", "a/img5.txt", "a/other.png", false},
		{"two levels up is not searched", "a/b/c/img6.txt", "a/img6.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			label := filepath.Join(root, tt.label)
			writeLabel(t, label)
			writePNG(t, filepath.Join(root, tt.image), 4, 4)

			got, ok := NewProcessor().FindImageForLabel(label)
			if ok != tt.wantHit {
				t.Fatalf("found=%v, want %v (path %q)", ok, tt.wantHit, got)
			}
			if ok && !strings.EqualFold(filepath.Base(got), filepath.Base(tt.image)) {
				t.Errorf("got %s, want %s", got, tt.image)
			}
		})
	}
}

func TestFindImageForLabel_PrefersSameDirectory(t *testing.T) {
	root := t.TempDir()
	label := filepath.Join(root, "labels", "x.txt")
	writeLabel(t, label)
	writePNG(t, filepath.Join(root, "labels", "x.png"), 4, 4)
	writePNG(t, filepath.Join(root, "x.png"), 8, 8)

	got, ok := NewProcessor().FindImageForLabel(label)
	if !ok || filepath.Dir(got) != filepath.Join(root, "labels") {
		t.Errorf("expected image next to label, got %q", got)
	}
}

func TestImageDimensions(t *testing.T) {
	dir := t.TempDir()
	img := createTestImage(200, 100)

	encoders := map[string]func(*os.File) error{
		"a.png":  func(f *os.File) error { return png.Encode(f, img) },
		"a.bmp":  func(f *os.File) error { return bmp.Encode(f, img) },
		"a.tiff": func(f *os.File) error { return tiff.Encode(f, img, nil) },
	}

	p := NewProcessor()
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := enc(f); err != nil {
				f.Close()
				t.Fatal(err)
			}
			f.Close()

			dims, err := p.ImageDimensions(path)
			if err != nil {
				t.Fatalf("ImageDimensions failed: %v", err)
			}
			if dims.Width != 200 || dims.Height != 100 {
				t.Errorf("got %dx%d, want 200x100", dims.Width, dims.Height)
			}
		})
	}
}

func TestImageDimensions_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProcessor().ImageDimensions(path); err == nil {
		t.Error("expected error for corrupt image")
	}
}

func TestLookupForLabel(t *testing.T) {
	root := t.TempDir()
	label := filepath.Join(root, "img.txt")
	writeLabel(t, label)

	p := NewProcessor()
	imgPath, dims, err := p.LookupForLabel(label)
	if err != nil || imgPath != "" || dims != nil {
		t.Fatalf("expected no image, got %q %v %v", imgPath, dims, err)
	}

	writePNG(t, filepath.Join(root, "img.jpg.png"), 1, 1) // unrelated stem
	writePNG(t, filepath.Join(root, "img.png"), 30, 20)

	imgPath, dims, err = p.LookupForLabel(label)
	if err != nil {
		t.Fatalf("LookupForLabel failed: %v", err)
	}
	if filepath.Base(imgPath) != "img.png" {
		t.Errorf("unexpected image %q", imgPath)
	}
	if dims == nil || dims.Width != 30 || dims.Height != 20 {
		t.Errorf("unexpected dims %v", dims)
	}
}

func TestNewProcessorWithOptions(t *testing.T) {
	p := NewProcessorWithOptions(types.ProcessingOptions{
		ImageExtensions: []string{"PNG", " .jpg"},
		ImageSearchDirs: []string{"imgs"},
	})
	if len(p.extensions) != 2 || p.extensions[0] != ".png" || p.extensions[1] != ".jpg" {
		t.Errorf("extensions not normalized: %v", p.extensions)
	}

	root := t.TempDir()
	label := filepath.Join(root, "x.txt")
	writeLabel(t, label)
	writePNG(t, filepath.Join(root, "imgs", "x.png"), 2, 2)
	if _, ok := p.FindImageForLabel(label); !ok {
		t.Error("expected image in custom search dir")
	}

	def := NewProcessorWithOptions(types.ProcessingOptions{})
	if len(def.extensions) != len(DefaultImageExtensions) {
		t.Errorf("empty options should keep defaults")
	}
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	writePNG(t, path, 12, 7)

	img, err := NewProcessor().LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 7 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
}
