package canny

import (
	"fmt"
	"math"
)

// RGBAChannels is the channel count of every Raster the stages accept and
// produce.
const RGBAChannels = 4

// Raster is a row-major pixel buffer with a fixed number of channels per
// pixel.
//
// len(Pix) is always Width*Height*Channels. A Raster is owned by whichever
// stage currently holds it; stages read their input and return a new Raster.
type Raster struct {
	Width    int
	Height   int
	Channels int

	// Pix holds channel values in pixel order: for RGBA, Pix[4*(y*Width+x)]
	// is red. Values are nominally 0-255 but gradient magnitudes may exceed
	// that range.
	Pix []float64
}

// NewRaster allocates a zeroed Raster. It panics if any dimension is
// negative, in the manner of image.NewRGBA.
func NewRaster(width, height, channels int) *Raster {
	if width < 0 || height < 0 || channels <= 0 {
		panic(fmt.Sprintf("canny: invalid raster shape %dx%dx%d", width, height, channels))
	}
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float64, width*height*channels),
	}
}

// NewRGBA allocates a zeroed 4-channel Raster.
func NewRGBA(width, height int) *Raster {
	return NewRaster(width, height, RGBAChannels)
}

// FromBytes builds a Raster from 8-bit channel data such as
// image.NRGBA.Pix with a tight stride.
func FromBytes(width, height, channels int, b []byte) (*Raster, error) {
	if width < 0 || height < 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: shape %dx%dx%d", ErrDimensionMismatch, width, height, channels)
	}
	if len(b) != width*height*channels {
		return nil, fmt.Errorf("%w: %d bytes for %dx%dx%d raster",
			ErrDimensionMismatch, len(b), width, height, channels)
	}
	r := NewRaster(width, height, channels)
	for i, v := range b {
		r.Pix[i] = float64(v)
	}
	return r, nil
}

// Offset returns the index in Pix of channel 0 of pixel (x, y).
func (r *Raster) Offset(x, y int) int {
	return (y*r.Width + x) * r.Channels
}

// At returns channel c of pixel (x, y).
func (r *Raster) At(x, y, c int) float64 {
	return r.Pix[r.Offset(x, y)+c]
}

// Set stores v in channel c of pixel (x, y).
func (r *Raster) Set(x, y, c int, v float64) {
	r.Pix[r.Offset(x, y)+c] = v
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	out := &Raster{Width: r.Width, Height: r.Height, Channels: r.Channels}
	out.Pix = append([]float64(nil), r.Pix...)
	return out
}

// SameShape reports whether r and o have identical width and height.
func (r *Raster) SameShape(o *Raster) bool {
	return r.Width == o.Width && r.Height == o.Height
}

// Bytes converts the raster to 8-bit channel data, rounding to nearest and
// clamping to 0-255.
func (r *Raster) Bytes() []byte {
	out := make([]byte, len(r.Pix))
	for i, v := range r.Pix {
		out[i] = toByte(v)
	}
	return out
}

func toByte(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

// checkRGBA validates that r is a well-formed 4-channel raster.
func checkRGBA(r *Raster, what string) error {
	if r == nil {
		return fmt.Errorf("%w: %s raster is nil", ErrDimensionMismatch, what)
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: %s raster has negative size %dx%d",
			ErrDimensionMismatch, what, r.Width, r.Height)
	}
	if r.Channels != RGBAChannels {
		return fmt.Errorf("%w: %s raster has %d channels, want %d",
			ErrDimensionMismatch, what, r.Channels, RGBAChannels)
	}
	if len(r.Pix) != r.Width*r.Height*r.Channels {
		return fmt.Errorf("%w: %s raster buffer length %d, want %d",
			ErrDimensionMismatch, what, len(r.Pix), r.Width*r.Height*r.Channels)
	}
	return nil
}

// clamp constrains val to [lo, hi]. Used for edge-clamped sampling.
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
