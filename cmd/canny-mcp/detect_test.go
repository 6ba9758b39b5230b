package main

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
	"github.com/ironsheep/canny-edge-mcp/internal/config"
)

func writeStepPNG(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= width/2 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	path := filepath.Join(dir, "step.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunDetect(t *testing.T) {
	dir := t.TempDir()
	in := writeStepPNG(t, dir, 40, 30)

	tests := []struct {
		name      string
		args      []string
		wantW     int
		wantH     int
		wantStage string
	}{
		{"defaults", nil, 40, 30, "threshold"},
		{"blur only", []string{"-stop", "gaussian"}, 40, 30, "blur"},
		{"scaled", []string{"-scale", "0.5", "-radius", "1", "-sigma", "1"}, 20, 15, "threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".png")
			var stdout bytes.Buffer
			args := append([]string{"-in", in, "-out", out}, tt.args...)
			if err := runDetect(args, config.Default(), zap.NewNop(), &stdout); err != nil {
				t.Fatalf("runDetect failed: %v", err)
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatalf("output not written: %v", err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatalf("output is not PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
			if !strings.Contains(stdout.String(), "stage "+tt.wantStage) {
				t.Errorf("summary %q does not name stage %s", stdout.String(), tt.wantStage)
			}
		})
	}
}

func TestRunDetect_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeStepPNG(t, dir, 10, 10)
	out := filepath.Join(dir, "out.png")

	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"missing flags", []string{"-in", in}, nil},
		{"unknown stage", []string{"-in", in, "-out", out, "-stop", "edges"}, canny.ErrUnknownStage},
		{"bad thresholds", []string{"-in", in, "-out", out, "-low", "200", "-high", "100"}, canny.ErrInvalidThresholdOrdering},
		{"zero sigma", []string{"-in", in, "-out", out, "-sigma", "0"}, canny.ErrInvalidKernelParameters},
		{"missing input", []string{"-in", filepath.Join(dir, "none.png"), "-out", out}, nil},
		{"help", []string{"-h"}, flag.ErrHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			err := runDetect(tt.args, config.Default(), zap.NewNop(), &stdout)
			if err == nil {
				t.Fatal("runDetect should fail")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("got %v, want %v", err, tt.is)
			}
		})
	}
}
