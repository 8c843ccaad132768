package chessvision

import (
	"image"
	"math"
)

// makeGrayImage converts an image into a [height][width] brightness plane.
func makeGrayImage(img image.Image) [][]int {
	return grayPlaneRegion(img, img.Bounds())
}

// grayPlaneRegion converts one rectangle of an image into a brightness plane.
func grayPlaneRegion(img image.Image, r image.Rectangle) [][]int {
	r = r.Intersect(img.Bounds())
	width, height := r.Dx(), r.Dy()

	gray := make([][]int, height)
	for y := range height {
		gray[y] = make([]int, width)
		for x := range width {
			c := img.At(r.Min.X+x, r.Min.Y+y)
			cr, cg, cb, _ := c.RGBA()
			gray[y][x] = (int(cr>>8) + int(cg>>8) + int(cb>>8)) / 3
		}
	}
	return gray
}

// gaussianBlur5 applies a separable 5x5 Gaussian (1 4 6 4 1 kernel).
func gaussianBlur5(gray [][]int) [][]int {
	height := len(gray)
	if height == 0 {
		return gray
	}
	width := len(gray[0])
	kernel := [5]int{1, 4, 6, 4, 1}

	tmp := make([][]int, height)
	for y := range height {
		tmp[y] = make([]int, width)
		for x := range width {
			sum, wsum := 0, 0
			for k := -2; k <= 2; k++ {
				xx := x + k
				if xx < 0 || xx >= width {
					continue
				}
				w := kernel[k+2]
				sum += w * gray[y][xx]
				wsum += w
			}
			tmp[y][x] = sum / wsum
		}
	}

	out := make([][]int, height)
	for y := range height {
		out[y] = make([]int, width)
		for x := range width {
			sum, wsum := 0, 0
			for k := -2; k <= 2; k++ {
				yy := y + k
				if yy < 0 || yy >= height {
					continue
				}
				w := kernel[k+2]
				sum += w * tmp[yy][x]
				wsum += w
			}
			out[y][x] = sum / wsum
		}
	}
	return out
}

// sobelEdgeDetection computes edge magnitude using the Sobel operator.
func sobelEdgeDetection(gray [][]int, width, height int) [][]int {
	edges := make([][]int, height)
	for y := range height {
		edges[y] = make([]int, width)
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			gx := -gray[y-1][x-1] + gray[y-1][x+1] +
				-2*gray[y][x-1] + 2*gray[y][x+1] +
				-gray[y+1][x-1] + gray[y+1][x+1]

			gy := -gray[y-1][x-1] - 2*gray[y-1][x] - gray[y-1][x+1] +
				gray[y+1][x-1] + 2*gray[y+1][x] + gray[y+1][x+1]

			mag := int(math.Sqrt(float64(gx*gx + gy*gy)))
			if mag > 255 {
				mag = 255
			}
			edges[y][x] = mag
		}
	}

	return edges
}

// dilateMask grows a binary mask by the given radius.
func dilateMask(mask [][]bool, width, height, radius int) [][]bool {
	result := make([][]bool, height)
	for y := range height {
		result[y] = make([]bool, width)
	}

	for y := range height {
		for x := range width {
			if !mask[y][x] {
				continue
			}
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					ny, nx := y+dy, x+dx
					if ny >= 0 && ny < height && nx >= 0 && nx < width {
						result[ny][nx] = true
					}
				}
			}
		}
	}

	return result
}

// connectedComponents labels an 8-connected binary mask and returns the
// pixel list of every component with at least minSize pixels.
func connectedComponents(mask [][]bool, width, height, minSize int) [][]image.Point {
	visited := make([][]bool, height)
	for y := range height {
		visited[y] = make([]bool, width)
	}

	var components [][]image.Point
	for y := range height {
		for x := range width {
			if !mask[y][x] || visited[y][x] {
				continue
			}
			comp := floodFill(mask, visited, x, y, width, height)
			if len(comp) >= minSize {
				components = append(components, comp)
			}
		}
	}
	return components
}

func floodFill(mask, visited [][]bool, startX, startY, width, height int) []image.Point {
	stack := []image.Point{{startX, startY}}
	var comp []image.Point

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if !mask[p.Y][p.X] || visited[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		comp = append(comp, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{p.X + dx, p.Y + dy})
			}
		}
	}

	return comp
}

func convexHull(points []image.Point) []image.Point {
	if len(points) < 3 {
		return points
	}

	sorted := make([]image.Point, len(points))
	copy(sorted, points)
	sortPoints(sorted)

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower []image.Point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []image.Point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

func sortPoints(pts []image.Point) {
	// insertion sort by (x, y); hulls here are small
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0; j-- {
			if pts[j].X < pts[j-1].X ||
				(pts[j].X == pts[j-1].X && pts[j].Y < pts[j-1].Y) {
				pts[j], pts[j-1] = pts[j-1], pts[j]
			} else {
				break
			}
		}
	}
}

// polygonArea returns the absolute shoelace area of a closed polygon.
func polygonArea(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	sum := 0
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(float64(sum)) / 2
}

// polygonPerimeter returns the closed arc length of a polygon.
func polygonPerimeter(pts []image.Point) float64 {
	sum := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		dx := float64(pts[j].X - pts[i].X)
		dy := float64(pts[j].Y - pts[i].Y)
		sum += math.Hypot(dx, dy)
	}
	return sum
}

// approxPolyClosed simplifies a closed polygon with the Douglas-Peucker
// algorithm, splitting at the two most distant vertices.
func approxPolyClosed(pts []image.Point, eps float64) []image.Point {
	if len(pts) < 3 {
		return pts
	}

	ai, bi := 0, 0
	best := -1.0
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			dx := float64(pts[j].X - pts[i].X)
			dy := float64(pts[j].Y - pts[i].Y)
			if d := dx*dx + dy*dy; d > best {
				best = d
				ai, bi = i, j
			}
		}
	}

	chain1 := pts[ai : bi+1]
	chain2 := append(append([]image.Point{}, pts[bi:]...), pts[:ai+1]...)

	r1 := douglasPeucker(chain1, eps)
	r2 := douglasPeucker(chain2, eps)

	// both chains share their endpoints; drop them from the second
	out := append([]image.Point{}, r1...)
	if len(r2) > 2 {
		out = append(out, r2[1:len(r2)-1]...)
	}
	return out
}

func douglasPeucker(pts []image.Point, eps float64) []image.Point {
	if len(pts) < 3 {
		return pts
	}

	maxDist := 0.0
	maxIdx := 0
	for i := 1; i < len(pts)-1; i++ {
		d := perpendicularDistance(pts[i], pts[0], pts[len(pts)-1])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= eps {
		return []image.Point{pts[0], pts[len(pts)-1]}
	}

	left := douglasPeucker(pts[:maxIdx+1], eps)
	right := douglasPeucker(pts[maxIdx:], eps)
	return append(left[:len(left)-1], right...)
}

func perpendicularDistance(p, a, b image.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return math.Hypot(float64(p.X-a.X), float64(p.Y-a.Y))
	}
	return math.Abs(dy*float64(p.X-a.X)-dx*float64(p.Y-a.Y)) / norm
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
