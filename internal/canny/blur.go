package canny

import (
	"math"
	"runtime"
)

// Blur convolves the R, G and B channels of in with k.
//
// Taps falling outside the raster sample the nearest edge pixel. With
// grayscale set, the three channel sums are averaged and floored into one
// density value written to R, G and B; otherwise each channel is floored on
// its own. Output alpha is always 255. A radius-0 kernel makes Blur an
// identity pass over the colour channels.
func Blur(in *Raster, k *Kernel, grayscale bool) (*Raster, error) {
	return blur(in, k, grayscale, runtime.GOMAXPROCS(0))
}

func blur(in *Raster, k *Kernel, grayscale bool, workers int) (*Raster, error) {
	if err := checkRGBA(in, "blur input"); err != nil {
		return nil, err
	}
	if err := k.validate(); err != nil {
		return nil, err
	}

	w, h, r := in.Width, in.Height, k.Radius
	size := k.Size()
	out := NewRGBA(w, h)

	forEachRow(h, workers, func(y int) {
		for x := 0; x < w; x++ {
			var sr, sg, sb float64
			for dy := -r; dy <= r; dy++ {
				row := clamp(y+dy, 0, h-1) * w
				krow := k.Weights[(dy+r)*size : (dy+r+1)*size]
				for dx := -r; dx <= r; dx++ {
					p := (row + clamp(x+dx, 0, w-1)) * RGBAChannels
					wt := krow[dx+r]
					sr += wt * in.Pix[p]
					sg += wt * in.Pix[p+1]
					sb += wt * in.Pix[p+2]
				}
			}

			o := (y*w + x) * RGBAChannels
			if grayscale {
				d := math.Floor((sr + sg + sb) / 3)
				out.Pix[o], out.Pix[o+1], out.Pix[o+2] = d, d, d
			} else {
				out.Pix[o] = math.Floor(sr)
				out.Pix[o+1] = math.Floor(sg)
				out.Pix[o+2] = math.Floor(sb)
			}
			out.Pix[o+3] = 255
		}
	})

	return out, nil
}
