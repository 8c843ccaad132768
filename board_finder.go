package chessvision

import (
	"image"
)

// LocatorConfig tunes the board locator. A caller seeing ErrBoardNotFound
// can retry with a lower EdgeThreshold as an explicit fallback.
type LocatorConfig struct {
	// EdgeThreshold is the Sobel magnitude above which a pixel counts
	// as an edge.
	EdgeThreshold int
	// ApproxEpsFrac is the polygon approximation tolerance as a
	// fraction of the contour perimeter.
	ApproxEpsFrac float64
	// MinAreaFrac is the smallest acceptable board area as a fraction
	// of the whole image; smaller quadrilaterals are noise.
	MinAreaFrac float64
	// MinContourPoints drops tiny edge components before any polygon work.
	MinContourPoints int
}

func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{
		EdgeThreshold:    60,
		ApproxEpsFrac:    0.02,
		MinAreaFrac:      0.05,
		MinContourPoints: 100,
	}
}

// findBoard finds the four corners of the chess board in a photo.
// The board is the largest edge contour whose polygon approximation has
// exactly 4 vertices. The returned corners are unordered; see orderCorners.
func findBoard(img image.Image, cfg LocatorConfig) ([]image.Point, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	gray := makeGrayImage(img)
	blurred := gaussianBlur5(gray)
	edges := sobelEdgeDetection(blurred, width, height)

	mask := make([][]bool, height)
	for y := range height {
		mask[y] = make([]bool, width)
		for x := range width {
			mask[y][x] = edges[y][x] >= cfg.EdgeThreshold
		}
	}
	// close single-pixel gaps so a board outline stays one contour
	mask = dilateMask(mask, width, height, 1)

	contours := connectedComponents(mask, width, height, cfg.MinContourPoints)

	minArea := cfg.MinAreaFrac * float64(width) * float64(height)
	var board []image.Point
	maxArea := 0.0

	for _, contour := range contours {
		hull := convexHull(contour)
		if len(hull) < 3 {
			continue
		}
		area := polygonArea(hull)
		if area < minArea || area <= maxArea {
			continue
		}

		eps := cfg.ApproxEpsFrac * polygonPerimeter(hull)
		approx := approxPolyClosed(hull, eps)
		if len(approx) != 4 {
			continue
		}

		board = approx
		maxArea = area
	}

	if board == nil {
		return nil, ErrBoardNotFound
	}
	return board, nil
}

// FindBoard locates the board with the default locator settings.
func FindBoard(img image.Image) ([]image.Point, error) {
	return findBoard(img, DefaultLocatorConfig())
}
