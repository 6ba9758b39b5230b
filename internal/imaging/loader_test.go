package imaging

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
)

// solidImage returns an in-memory image filled with c.
func solidImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// squareImage returns a black image with a white square covering the middle
// half, giving four straight edges.
func squareImage(width, height int) *image.NRGBA {
	img := solidImage(width, height, color.Black)
	for y := height / 4; y < height*3/4; y++ {
		for x := width / 4; x < width*3/4; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// writePNG encodes img into a file under t.TempDir and returns its path.
func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	return writeImage(t, "image.png", img, png.Encode)
}

func writeImage(t *testing.T, name string, img image.Image, encode func(w io.Writer, img image.Image) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, solidImage(40, 30, color.RGBA{255, 0, 0, 255}))

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img1.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", b.Dx(), b.Dy())
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return the cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.png")},
		{"undecodable", garbage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewImageCache()
			if _, err := cache.Load(tt.path); err == nil {
				t.Error("Load should fail")
			}
			if cache.Len() != 0 {
				t.Error("failed load must not be cached")
			}
		})
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	a := writePNG(t, solidImage(5, 5, color.White))
	b := writePNG(t, solidImage(6, 6, color.Black))
	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load(%s): %v", p, err)
		}
	}

	cache.Evict(a)
	cache.Evict("/never/loaded")
	if cache.Len() != 1 {
		t.Fatalf("after Evict: Len = %d, want 1", cache.Len())
	}
	if _, ok := cache.images[b]; !ok {
		t.Error("Evict removed the wrong entry")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: Len = %d, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentLoad(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, solidImage(20, 20, color.Gray{128}))

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadImageInfo_Formats(t *testing.T) {
	img := solidImage(12, 8, color.RGBA{10, 20, 30, 255})

	tests := []struct {
		name   string
		file   string
		encode func(w io.Writer, img image.Image) error
		format string
	}{
		{"png", "a.png", png.Encode, "png"},
		{"jpeg", "a.jpg", func(w io.Writer, img image.Image) error { return jpeg.Encode(w, img, nil) }, "jpeg"},
		{"gif", "a.gif", func(w io.Writer, img image.Image) error { return gif.Encode(w, img, nil) }, "gif"},
		{"bmp", "a.bmp", bmp.Encode, "bmp"},
		// The decoder, not the extension, decides the format.
		{"png with odd extension", "a.xyz", png.Encode, "png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeImage(t, tt.file, img, tt.encode)

			info, err := LoadImageInfo(NewImageCache(), path)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}
			if info.Format != tt.format {
				t.Errorf("Format: got %s, want %s", info.Format, tt.format)
			}
			if info.Width != 12 || info.Height != 8 {
				t.Errorf("dimensions: got %dx%d, want 12x8", info.Width, info.Height)
			}
			if info.FileSizeBytes <= 0 {
				t.Error("FileSizeBytes should be positive")
			}
		})
	}
}

func TestLoadImageInfo_Alpha(t *testing.T) {
	opaque := writePNG(t, solidImage(4, 4, color.NRGBA{1, 2, 3, 255}))
	translucent := writePNG(t, solidImage(4, 4, color.NRGBA{1, 2, 3, 100}))

	cache := NewImageCache()
	info, err := LoadImageInfo(cache, opaque)
	if err != nil {
		t.Fatal(err)
	}
	if info.HasAlpha {
		t.Error("opaque image reported HasAlpha")
	}

	info, err = LoadImageInfo(cache, translucent)
	if err != nil {
		t.Fatal(err)
	}
	if !info.HasAlpha {
		t.Error("translucent image did not report HasAlpha")
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, solidImage(300, 200, color.White))

	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 300 || dims.Height != 200 {
		t.Errorf("got %dx%d, want 300x200", dims.Width, dims.Height)
	}

	if _, err := GetDimensions(cache, "/nonexistent/image.png"); err == nil {
		t.Error("GetDimensions should fail for a missing file")
	}
}
