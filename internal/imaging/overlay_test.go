package imaging

import (
	"errors"
	"image/color"
	"testing"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
)

func TestOverlay(t *testing.T) {
	base := solidImage(3, 2, color.NRGBA{10, 20, 30, 255})
	edges := canny.NewRGBA(3, 2)
	edges.Set(1, 0, 0, 80)
	edges.Set(2, 1, 0, 400)

	tests := []struct {
		name string
		hex  string
		want color.NRGBA
	}{
		{"default", "", color.NRGBA{255, 0, 0, 255}},
		{"long form", "#00ff80", color.NRGBA{0, 255, 128, 255}},
		{"short form", "#0f0", color.NRGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Overlay(base, edges, tt.hex)
			if err != nil {
				t.Fatalf("Overlay failed: %v", err)
			}
			for _, p := range [][2]int{{1, 0}, {2, 1}} {
				if got := out.NRGBAAt(p[0], p[1]); got != tt.want {
					t.Errorf("edge pixel %v: got %v, want %v", p, got, tt.want)
				}
			}
			if got := out.NRGBAAt(0, 0); got != (color.NRGBA{10, 20, 30, 255}) {
				t.Errorf("background pixel changed: %v", got)
			}
		})
	}
}

func TestOverlay_Errors(t *testing.T) {
	base := solidImage(3, 3, color.White)

	if _, err := Overlay(base, canny.NewRGBA(3, 3), "red"); err == nil {
		t.Error("named colour should be rejected")
	}
	if _, err := Overlay(base, canny.NewRGBA(4, 3), ""); !errors.Is(err, canny.ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestEdgeOverlay(t *testing.T) {
	d := newTestDetector()
	cfg := canny.DefaultConfig()
	cfg.StopAfter = canny.StageBlur // ignored: overlay needs final edges

	result, err := d.EdgeOverlay(squareImage(40, 40), cfg, "#00ff00")
	if err != nil {
		t.Fatalf("EdgeOverlay failed: %v", err)
	}
	if result.Stage != "threshold" {
		t.Errorf("Stage: got %s", result.Stage)
	}
	if result.Stats.EdgePixels == 0 {
		t.Fatal("no edges painted")
	}

	img := decodeResultPNG(t, result.ImageBase64)
	green := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA) == (color.NRGBA{0, 255, 0, 255}) {
				green++
			}
		}
	}
	if green != result.Stats.EdgePixels {
		t.Errorf("painted %d pixels, stats report %d edges", green, result.Stats.EdgePixels)
	}
}
