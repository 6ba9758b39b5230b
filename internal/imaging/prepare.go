package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangle in image coordinates; X2 and Y2 are exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// PrepareOptions selects the part of an image to run detection on.
type PrepareOptions struct {
	// Region, when set, crops to an explicit rectangle.
	Region *Region

	// Named crops to a named region such as "top-left" or "center" and is
	// ignored when Region is set.
	Named string

	// Scale resizes the (cropped) image with Lanczos resampling. 0 and 1
	// leave it unchanged.
	Scale float64
}

// Prepare crops and rescales img before detection. With zero options it
// returns img unchanged.
func Prepare(img image.Image, opts PrepareOptions) (image.Image, error) {
	bounds := img.Bounds()
	out := img

	var rect image.Rectangle
	switch {
	case opts.Region != nil:
		r := opts.Region
		rect = image.Rect(r.X1, r.Y1, r.X2, r.Y2)
		if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		}
		if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
			return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
		}
	case opts.Named != "":
		var err error
		if rect, err = NamedRegion(bounds, opts.Named); err != nil {
			return nil, err
		}
	}
	if !rect.Empty() {
		out = imaging.Crop(out, rect)
	}

	if opts.Scale < 0 {
		return nil, fmt.Errorf("invalid scale %v: must be positive", opts.Scale)
	}
	if opts.Scale != 0 && opts.Scale != 1 {
		w := int(float64(out.Bounds().Dx()) * opts.Scale)
		h := int(float64(out.Bounds().Dy()) * opts.Scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %v shrinks image to %dx%d", opts.Scale, w, h)
		}
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}

	return out, nil
}

// NamedRegion resolves a region name against bounds. Recognised names are
// top-left, top-right, bottom-left, bottom-right, top-half, bottom-half,
// left-half, right-half and center (the middle 50%).
func NamedRegion(bounds image.Rectangle, name string) (image.Rectangle, error) {
	w, h := bounds.Dx(), bounds.Dy()
	midX, midY := w/2, h/2

	var r image.Rectangle
	switch name {
	case "top-left":
		r = image.Rect(0, 0, midX, midY)
	case "top-right":
		r = image.Rect(midX, 0, w, midY)
	case "bottom-left":
		r = image.Rect(0, midY, midX, h)
	case "bottom-right":
		r = image.Rect(midX, midY, w, h)
	case "top-half":
		r = image.Rect(0, 0, w, midY)
	case "bottom-half":
		r = image.Rect(0, midY, w, h)
	case "left-half":
		r = image.Rect(0, 0, midX, h)
	case "right-half":
		r = image.Rect(midX, 0, w, h)
	case "center":
		r = image.Rect(w/4, h/4, w-w/4, h-h/4)
	default:
		return image.Rectangle{}, fmt.Errorf("unknown region: %s", name)
	}
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %s is empty for a %dx%d image", name, w, h)
	}
	return r.Add(bounds.Min), nil
}
