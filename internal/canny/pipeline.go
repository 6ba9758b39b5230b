package canny

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Stage names a point at which Pipeline may stop.
type Stage int

// Stages in execution order. The zero value means "run every stage".
const (
	StageBlur Stage = iota + 1
	StageGradient
	StageSuppress
	StageThreshold
)

var stageNames = map[Stage]string{
	StageBlur:      "blur",
	StageGradient:  "gradient",
	StageSuppress:  "suppress",
	StageThreshold: "threshold",
}

// String returns the canonical stage name.
func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	if s == 0 {
		return "threshold"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// ParseStage accepts a canonical stage name or one of the older names
// "gaussian", "sobel" and "nonmax". Matching ignores case and surrounding
// space. An empty string selects StageThreshold.
func ParseStage(name string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "blur", "gaussian":
		return StageBlur, nil
	case "gradient", "sobel":
		return StageGradient, nil
	case "suppress", "nonmax", "nms":
		return StageSuppress, nil
	case "threshold", "hysteresis", "":
		return StageThreshold, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// Config is the immutable parameter set for one pipeline run.
type Config struct {
	KernelRadius int
	Sigma        float64
	Grayscale    bool
	StopAfter    Stage
	Low          int
	High         int
}

// DefaultConfig returns the settings used when a caller supplies none:
// radius 2, sigma 1.4, grayscale, thresholds 50/150, every stage.
func DefaultConfig() Config {
	return Config{
		KernelRadius: 2,
		Sigma:        1.4,
		Grayscale:    true,
		StopAfter:    StageThreshold,
		Low:          50,
		High:         150,
	}
}

// Thresholds returns the (Low, High) pair.
func (c Config) Thresholds() Thresholds {
	return Thresholds{Low: c.Low, High: c.High}
}

// Validate checks every parameter regardless of StopAfter, so a bad
// threshold is reported even for a blur-only run.
func (c Config) Validate() error {
	if c.KernelRadius < 0 {
		return fmt.Errorf("%w: radius %d is negative", ErrInvalidKernelParameters, c.KernelRadius)
	}
	if !(c.Sigma > 0) || math.IsInf(c.Sigma, 0) {
		return fmt.Errorf("%w: sigma %v must be positive", ErrInvalidKernelParameters, c.Sigma)
	}
	if c.StopAfter != 0 {
		if _, ok := stageNames[c.StopAfter]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownStage, int(c.StopAfter))
		}
	}
	return c.Thresholds().Validate()
}

func (c Config) stopAfter() Stage {
	if c.StopAfter == 0 {
		return StageThreshold
	}
	return c.StopAfter
}

// Result holds every stage output produced by a run. Outputs of stages after
// Stage are nil.
type Result struct {
	Stage      Stage
	Blurred    *Raster
	Magnitude  *Raster
	Angles     *AngleMap
	Suppressed *Raster
	Edges      *Raster
}

// Output returns the raster of the last stage that ran.
func (r *Result) Output() *Raster {
	switch r.Stage {
	case StageBlur:
		return r.Blurred
	case StageGradient:
		return r.Magnitude
	case StageSuppress:
		return r.Suppressed
	default:
		return r.Edges
	}
}

// Pipeline runs the four stages in order over a worker pool shared by all
// stages. It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	workers int
	logger  *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets the number of goroutines each stage spreads its rows
// across. Values below 2 run every stage on the calling goroutine.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithLogger sets the logger used for per-stage debug timing.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline returns a Pipeline using GOMAXPROCS workers and a no-op logger
// unless overridden.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		workers: runtime.GOMAXPROCS(0),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workers returns the configured pool size.
func (p *Pipeline) Workers() int {
	return p.workers
}

// Run validates cfg, builds its kernel and returns the output of the last
// stage requested.
func (p *Pipeline) Run(in *Raster, cfg Config) (*Raster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k, err := BuildKernel(cfg.KernelRadius, cfg.Sigma)
	if err != nil {
		return nil, err
	}
	res, err := p.RunWithKernel(in, k, cfg)
	if err != nil {
		return nil, err
	}
	return res.Output(), nil
}

// RunWithKernel runs the pipeline with a kernel the caller built, typically
// once per configuration change. k must have been built from cfg's radius and
// sigma.
func (p *Pipeline) RunWithKernel(in *Raster, k *Kernel, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := k.validate(); err != nil {
		return nil, err
	}
	if k.Radius != cfg.KernelRadius || k.Sigma != cfg.Sigma {
		return nil, fmt.Errorf("%w: kernel (r=%d, σ=%v) does not match config (r=%d, σ=%v)",
			ErrInvalidKernelParameters, k.Radius, k.Sigma, cfg.KernelRadius, cfg.Sigma)
	}
	if err := checkRGBA(in, "pipeline input"); err != nil {
		return nil, err
	}

	stop := cfg.stopAfter()
	res := &Result{Stage: stop}
	var err error

	start := time.Now()
	if res.Blurred, err = blur(in, k, cfg.Grayscale, p.workers); err != nil {
		return nil, err
	}
	if err := p.finish(StageBlur, start, in, res.Blurred); err != nil {
		return nil, err
	}
	if stop == StageBlur {
		return res, nil
	}

	start = time.Now()
	if res.Magnitude, res.Angles, err = gradient(res.Blurred, p.workers); err != nil {
		return nil, err
	}
	if err := p.finish(StageGradient, start, in, res.Magnitude); err != nil {
		return nil, err
	}
	if stop == StageGradient {
		return res, nil
	}

	start = time.Now()
	if res.Suppressed, err = suppress(res.Magnitude, res.Angles, p.workers); err != nil {
		return nil, err
	}
	if err := p.finish(StageSuppress, start, in, res.Suppressed); err != nil {
		return nil, err
	}
	if stop == StageSuppress {
		return res, nil
	}

	start = time.Now()
	if res.Edges, err = threshold(res.Suppressed, cfg.Thresholds(), p.workers); err != nil {
		return nil, err
	}
	if err := p.finish(StageThreshold, start, in, res.Edges); err != nil {
		return nil, err
	}
	return res, nil
}

// finish checks that a stage preserved the input shape and logs its timing.
func (p *Pipeline) finish(s Stage, start time.Time, in, out *Raster) error {
	if !in.SameShape(out) {
		return fmt.Errorf("%w: %s produced %dx%d from %dx%d",
			ErrDimensionMismatch, s, out.Width, out.Height, in.Width, in.Height)
	}
	p.logger.Debug("stage complete",
		zap.Stringer("stage", s),
		zap.Int("width", out.Width),
		zap.Int("height", out.Height),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
