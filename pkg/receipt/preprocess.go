package receipt

import (
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"
)

// enhance normalizes a receipt photo for recognition: grayscale, upscale,
// denoise, combined binarization, morphological cleanup and sharpening.
// It never fails the request: on any internal fault the original image is
// returned unmodified.
func (p *Pipeline) enhance(img image.Image) (out image.Image) {
	out = img
	defer func() {
		if r := recover(); r != nil {
			log.Printf("enhance failed, using original image: %v", r)
			out = img
		}
	}()

	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < p.cfg.MinHeight {
		gray = imaging.Resize(gray, 0, p.cfg.MinHeight, imaging.CatmullRom)
	}
	// sigma ~1 approximates a 5x5 Gaussian kernel
	blurred := imaging.Blur(gray, 1.0)

	adaptive := adaptiveThreshold(blurred, 11, 2)
	otsu := binarize(blurred, otsuLevel(blurred))
	combined := bitwiseAnd(adaptive, otsu)

	opened := dilate(erode(combined))
	closed := erode(dilate(opened))
	thick := dilate(closed)

	return sharpen(thick)
}

// grayAt reads a pixel as an 8-bit gray level.
func grayAt(img image.Image, x, y int) int {
	r, g, b, _ := img.At(x, y).RGBA()
	return int((r + g + b) / 3 >> 8)
}

// binarize performs a global threshold: pixels at or below threshold become black.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var v uint8 = 255
			if grayAt(img, x, y) <= int(threshold) {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// otsuLevel picks the global threshold minimizing intra-class variance.
func otsuLevel(img image.Image) uint8 {
	var hist [256]int
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[grayAt(img, x, y)]++
		}
	}
	sum := 0.0
	for i, c := range hist {
		sum += float64(i * c)
	}
	var sumB, wB float64
	best, bestVar := 0, -1.0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		v := wB * wF * (mB - mF) * (mB - mF)
		if v > bestVar {
			bestVar = v
			best = t
		}
	}
	return uint8(best)
}

// adaptiveThreshold performs a local-mean threshold using an integral image.
// window is the neighborhood size (forced odd), bias the constant subtracted
// from the local mean.
func adaptiveThreshold(img image.Image, window int, bias int) *image.NRGBA {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	half := window / 2
	ints := make([]int, w*h)
	for y := 0; y < h; y++ {
		rowSum := 0
		for x := 0; x < w; x++ {
			rowSum += grayAt(img, x, y)
			idx := y*w + x
			if y == 0 {
				ints[idx] = rowSum
			} else {
				ints[idx] = ints[(y-1)*w+x] + rowSum
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := x-half, y-half
			x1, y1 := x+half, y+half
			if x0 < 0 {
				x0 = 0
			}
			if y0 < 0 {
				y0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}
			if y1 >= h {
				y1 = h - 1
			}
			A := ints[y0*w+x0]
			B := ints[y0*w+x1]
			C := ints[y1*w+x0]
			D := ints[y1*w+x1]
			mean := (D - B - C + A) / ((x1 - x0 + 1) * (y1 - y0 + 1))
			th := mean - bias
			if th < 0 {
				th = 0
			}
			var c color.NRGBA
			if grayAt(img, x, y) < th {
				c = color.NRGBA{0, 0, 0, 255}
			} else {
				c = color.NRGBA{255, 255, 255, 255}
			}
			out.Set(x, y, c)
		}
	}
	return out
}

// bitwiseAnd keeps a pixel white only where both binarizations agree it is white.
func bitwiseAnd(a, b *image.NRGBA) *image.NRGBA {
	w := a.Bounds().Dx()
	h := a.Bounds().Dy()
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ra, _, _, _ := a.At(x, y).RGBA()
			rb, _, _, _ := b.At(x, y).RGBA()
			if ra == 0 || rb == 0 {
				out.Set(x, y, color.NRGBA{0, 0, 0, 255})
			}
		}
	}
	return out
}

// 2x2 structuring element, anchored top-left.
var kernel2x2 = [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// dilate grows black strokes by one 2x2 kernel pass.
func dilate(img *image.NRGBA) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for _, d := range kernel2x2 {
				x2, y2 := x+d[0], y+d[1]
				if x2 >= w || y2 >= h {
					continue
				}
				r, g, b, _ := img.At(x2, y2).RGBA()
				if r+g+b == 0 {
					out.Set(x, y, color.NRGBA{0, 0, 0, 255})
					break
				}
			}
		}
	}
	return out
}

// erode shrinks black strokes by one 2x2 kernel pass.
func erode(img *image.NRGBA) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			all := true
			for _, d := range kernel2x2 {
				x2, y2 := x+d[0], y+d[1]
				if x2 >= w || y2 >= h {
					continue
				}
				r, g, b, _ := img.At(x2, y2).RGBA()
				if r+g+b != 0 {
					all = false
					break
				}
			}
			if all {
				out.Set(x, y, color.NRGBA{0, 0, 0, 255})
			}
		}
	}
	return out
}

// sharpen applies the unsharp kernel [-1 -1 -1; -1 9 -1; -1 -1 -1].
func sharpen(img *image.NRGBA) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	clampXY := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v >= max {
			return max - 1
		}
		return v
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					v := grayAt(img, clampXY(x+dx, w), clampXY(y+dy, h))
					if dx == 0 && dy == 0 {
						acc += 9 * v
					} else {
						acc -= v
					}
				}
			}
			if acc < 0 {
				acc = 0
			}
			if acc > 255 {
				acc = 255
			}
			c := uint8(acc)
			out.Set(x, y, color.NRGBA{R: c, G: c, B: c, A: 255})
		}
	}
	return out
}
