package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"go.uber.org/zap"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
	"github.com/ironsheep/canny-edge-mcp/internal/config"
	"github.com/ironsheep/canny-edge-mcp/internal/imaging"
)

// runDetect implements the detect subcommand: read one image, run the
// pipeline and save the chosen stage as PNG.
func runDetect(args []string, cfg *config.Config, logger *zap.Logger, stdout io.Writer) error {
	d := cfg.Detect
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(stdout)
	in := fs.String("in", "", "input image (png, jpeg, gif, bmp, tiff, webp)")
	out := fs.String("out", "", "output PNG path")
	radius := fs.Int("radius", d.Radius, "Gaussian kernel radius (0-10)")
	sigma := fs.Float64("sigma", d.Sigma, "Gaussian sigma (> 0)")
	low := fs.Int("low", d.Low, "weak edge threshold (0-255)")
	high := fs.Int("high", d.High, "strong edge threshold (0-255)")
	gray := fs.Bool("gray", d.Grayscale, "collapse RGB to its mean while blurring")
	stop := fs.String("stop", "threshold", "last stage: blur, gradient, suppress or threshold")
	scale := fs.Float64("scale", 1, "resize factor applied before detection")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return errors.New("-in and -out are required")
	}

	stage, err := canny.ParseStage(*stop)
	if err != nil {
		return err
	}
	run := config.Clamp(canny.Config{
		KernelRadius: *radius,
		Sigma:        *sigma,
		Grayscale:    *gray,
		StopAfter:    stage,
		Low:          *low,
		High:         *high,
	})

	img, err := imgio.Open(*in)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *in, err)
	}
	img, err = imaging.Prepare(img, imaging.PrepareOptions{Scale: *scale})
	if err != nil {
		return err
	}

	opts := []canny.Option{canny.WithLogger(logger)}
	if cfg.Workers > 0 {
		opts = append(opts, canny.WithWorkers(cfg.Workers))
	}
	detector := imaging.NewDetector(canny.NewPipeline(opts...), imaging.NewKernelCache(1))

	start := time.Now()
	res, err := detector.Run(img, run)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	output := res.Output()
	if err := imgio.Save(*out, imaging.FromRaster(output), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", *out, err)
	}

	stats := imaging.ComputeEdgeStats(output)
	logger.Info("detect complete",
		zap.String("in", *in),
		zap.String("out", *out),
		zap.Stringer("stage", res.Stage),
		zap.Int("edge_pixels", stats.EdgePixels),
		zap.Duration("elapsed", elapsed))
	fmt.Fprintf(stdout, "%s: %dx%d, stage %s, %d non-black pixels (%.2f%%), %v\n",
		*out, output.Width, output.Height, res.Stage, stats.EdgePixels, stats.Density*100,
		elapsed.Round(time.Millisecond))
	return nil
}
