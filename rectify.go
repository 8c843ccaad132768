package chessvision

import (
	"image"
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// orderCorners puts 4 detected corners into canonical order:
// top-left, top-right, bottom-right, bottom-left.
// Top-left has the smallest x+y, bottom-right the largest; top-right has
// the largest x-y, bottom-left the smallest. The result is independent of
// the input ordering.
func orderCorners(pts []image.Point) [4]image.Point {
	var ordered [4]image.Point
	minSum, maxSum := math.MaxInt, math.MinInt
	minDiff, maxDiff := math.MaxInt, math.MinInt

	for _, p := range pts {
		if s := p.X + p.Y; s < minSum {
			minSum = s
			ordered[0] = p
		}
		if s := p.X + p.Y; s > maxSum {
			maxSum = s
			ordered[2] = p
		}
		if d := p.X - p.Y; d > maxDiff {
			maxDiff = d
			ordered[1] = p
		}
		if d := p.X - p.Y; d < minDiff {
			minDiff = d
			ordered[3] = p
		}
	}
	return ordered
}

// homography computes the 3x3 planar transform mapping src[i] to dst[i]
// for 4 point pairs, with h33 fixed to 1.
func homography(src, dst [4]r2.Point) (*mat.Dense, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -v * x, -v * y})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return nil, ErrRectificationFailed
	}

	return mat.NewDense(3, 3, []float64{
		h.AtVec(0), h.AtVec(1), h.AtVec(2),
		h.AtVec(3), h.AtVec(4), h.AtVec(5),
		h.AtVec(6), h.AtVec(7), 1,
	}), nil
}

func applyHomography(h *mat.Dense, p r2.Point) (r2.Point, bool) {
	w := h.At(2, 0)*p.X + h.At(2, 1)*p.Y + h.At(2, 2)
	if math.Abs(w) < 1e-9 {
		return r2.Point{}, false
	}
	return r2.Point{
		X: (h.At(0, 0)*p.X + h.At(0, 1)*p.Y + h.At(0, 2)) / w,
		Y: (h.At(1, 0)*p.X + h.At(1, 1)*p.Y + h.At(1, 2)) / w,
	}, true
}

// perspectiveTransform warps the quadrilateral spanned by the detected
// corners into a size x size top-down image. The corners may arrive in any
// order. Degenerate corner geometry yields ErrRectificationFailed rather
// than a distorted image.
func perspectiveTransform(img image.Image, corners []image.Point, size int) (*image.RGBA, error) {
	ordered := orderCorners(corners)

	quad := make([]image.Point, 4)
	copy(quad, ordered[:])
	if polygonArea(quad) < 1 {
		return nil, ErrRectificationFailed
	}

	var src [4]r2.Point
	for i, p := range ordered {
		src[i] = r2.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	fs := float64(size)
	dst := [4]r2.Point{{X: 0, Y: 0}, {X: fs, Y: 0}, {X: fs, Y: fs}, {X: 0, Y: fs}}

	// map destination pixels back into the source for resampling
	h, err := homography(dst, src)
	if err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			sp, ok := applyHomography(h, r2.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			if !ok {
				return nil, ErrRectificationFailed
			}
			out.SetRGBA(x, y, bilinearSample(img, sp.X-0.5, sp.Y-0.5))
		}
	}
	return out, nil
}

func bilinearSample(img image.Image, x, y float64) color.RGBA {
	bounds := img.Bounds()

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	sample := func(px, py int) (float64, float64, float64) {
		if px < bounds.Min.X {
			px = bounds.Min.X
		}
		if px >= bounds.Max.X {
			px = bounds.Max.X - 1
		}
		if py < bounds.Min.Y {
			py = bounds.Min.Y
		}
		if py >= bounds.Max.Y {
			py = bounds.Max.Y - 1
		}
		r, g, b, _ := img.At(px, py).RGBA()
		return float64(r >> 8), float64(g >> 8), float64(b >> 8)
	}

	r00, g00, b00 := sample(x0, y0)
	r10, g10, b10 := sample(x0+1, y0)
	r01, g01, b01 := sample(x0, y0+1)
	r11, g11, b11 := sample(x0+1, y0+1)

	lerp2 := func(v00, v10, v01, v11 float64) uint8 {
		top := v00*(1-fx) + v10*fx
		bot := v01*(1-fx) + v11*fx
		return uint8(math.Round(top*(1-fy) + bot*fy))
	}

	return color.RGBA{
		R: lerp2(r00, r10, r01, r11),
		G: lerp2(g00, g10, g01, g11),
		B: lerp2(b00, b10, b01, b11),
		A: 255,
	}
}
