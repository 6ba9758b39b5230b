package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
)

// ToRaster converts img to a 4-channel raster of non-premultiplied 8-bit
// values with its origin at the image's top-left corner.
func ToRaster(img image.Image) *canny.Raster {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	out := canny.NewRGBA(w, h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		dst := out.Pix[y*w*4 : (y+1)*w*4]
		for i, v := range row {
			dst[i] = float64(v)
		}
	}
	return out
}

// FromRaster converts a 4-channel or 1-channel raster to an NRGBA image.
// Channel values are rounded and clamped to 0-255. Single-channel rasters
// become opaque gray.
func FromRaster(r *canny.Raster) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	b := r.Bytes()

	switch r.Channels {
	case canny.RGBAChannels:
		copy(out.Pix, b)
	case 1:
		for i, v := range b {
			out.Pix[i*4], out.Pix[i*4+1], out.Pix[i*4+2], out.Pix[i*4+3] = v, v, v, 255
		}
	}
	return out
}
