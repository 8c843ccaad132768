package chessvision

import (
	"image"
	"sync"

	viamutils "go.viam.com/utils"
)

// Shade is the background brightness class of a board square.
type Shade int

const (
	ShadeDark Shade = iota
	ShadeLight
)

// PieceColor is the recognized color of a cell occupant. ColorUnknown is a
// real result, not a placeholder for white or black; it survives all the
// way into the position string.
type PieceColor int

const (
	ColorUnknown PieceColor = iota
	ColorWhite
	ColorBlack
)

// PieceType is a low-confidence guess derived from silhouette fill and
// aspect ratio. The heuristic never produces King; treat every type as
// advisory.
type PieceType int

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

// CellLabel is the classification of one board cell.
type CellLabel struct {
	Empty bool
	Color PieceColor
	Type  PieceType
}

// ClassifierConfig holds every threshold of the per-cell decisions. The
// defaults are not calibrated against the input photo's lighting; a caller
// with controlled lighting can tune them externally.
type ClassifierConfig struct {
	// ShadeThreshold splits light from dark squares by mean brightness.
	ShadeThreshold int

	// Occupancy: a pixel is "contrast" when below LightContrastMax on a
	// light square or above DarkContrastMin on a dark one. A cell is
	// empty only when the contrast-pixel ratio stays under
	// OccupancyRatio AND the max-min brightness spread stays under
	// OccupancySpread.
	LightContrastMax int
	DarkContrastMin  int
	OccupancyRatio   float64
	OccupancySpread  int

	// Piece color bounds over the central cell region, per square shade.
	LightWhiteMin int
	LightBlackMax int
	DarkWhiteMin  int
	DarkBlackMax  int

	// Binarization thresholds for the piece-type silhouette.
	TypeFillLightMax int
	TypeFillDarkMin  int

	// InsetDivisor trims cellSize/InsetDivisor pixels off every cell edge
	// before measuring, so warp error at square borders cannot register
	// as contrast.
	InsetDivisor int
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ShadeThreshold:   127,
		LightContrastMax: 80,
		DarkContrastMin:  180,
		OccupancyRatio:   0.15,
		OccupancySpread:  100,
		LightWhiteMin:    160,
		LightBlackMax:    100,
		DarkWhiteMin:     180,
		DarkBlackMax:     140,
		TypeFillLightMax: 100,
		TypeFillDarkMin:  150,
		InsetDivisor:     10,
	}
}

// cellShade classifies the square background by mean brightness.
func cellShade(gray [][]int, cfg ClassifierConfig) Shade {
	if meanBrightness(gray) > cfg.ShadeThreshold {
		return ShadeLight
	}
	return ShadeDark
}

func meanBrightness(gray [][]int) int {
	sum, n := 0, 0
	for _, row := range gray {
		for _, v := range row {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

// isCellEmpty reports whether a cell holds no piece. Both the ratio and
// the spread condition must hold: the conjunction keeps a smooth lighting
// gradient from reading as a piece.
func isCellEmpty(gray [][]int, shade Shade, cfg ClassifierConfig) bool {
	blurred := gaussianBlur5(gray)

	contrast, total := 0, 0
	minV, maxV := 255, 0
	for _, row := range blurred {
		for _, v := range row {
			total++
			if shade == ShadeLight {
				if v < cfg.LightContrastMax {
					contrast++
				}
			} else {
				if v > cfg.DarkContrastMin {
					contrast++
				}
			}
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	if total == 0 {
		return true
	}

	ratio := float64(contrast) / float64(total)
	spread := maxV - minV
	return ratio < cfg.OccupancyRatio && spread < cfg.OccupancySpread
}

// pieceColor classifies the occupant over the central cell region, which
// avoids bleed from the square borders. The bounds differ by shade: a
// white piece on a dark square reads brighter in absolute terms than the
// same piece on a light square.
func pieceColor(gray [][]int, shade Shade, cfg ClassifierConfig) PieceColor {
	height := len(gray)
	if height == 0 {
		return ColorUnknown
	}
	width := len(gray[0])

	center := make([][]int, 0, height/2)
	for y := height / 4; y < 3*height/4; y++ {
		center = append(center, gray[y][width/4:3*width/4])
	}
	brightness := meanBrightness(center)

	if shade == ShadeLight {
		switch {
		case brightness > cfg.LightWhiteMin:
			return ColorWhite
		case brightness < cfg.LightBlackMax:
			return ColorBlack
		}
	} else {
		switch {
		case brightness > cfg.DarkWhiteMin:
			return ColorWhite
		case brightness < cfg.DarkBlackMax:
			return ColorBlack
		}
	}
	return ColorUnknown
}

// guessPieceType is a crude silhouette heuristic: binarize with the same
// polarity as occupancy, take the largest blob, and read a decision table
// over fill ratio and bounding-box aspect. It can never answer King.
func guessPieceType(gray [][]int, shade Shade, cfg ClassifierConfig) PieceType {
	height := len(gray)
	if height == 0 {
		return Pawn
	}
	width := len(gray[0])

	mask := make([][]bool, height)
	filled := 0
	for y := range height {
		mask[y] = make([]bool, width)
		for x := range width {
			var on bool
			if shade == ShadeLight {
				on = gray[y][x] < cfg.TypeFillLightMax
			} else {
				on = gray[y][x] > cfg.TypeFillDarkMin
			}
			if on {
				mask[y][x] = true
				filled++
			}
		}
	}

	fillRatio := float64(filled) / float64(width*height)

	blobs := connectedComponents(mask, width, height, 4)
	var largest []image.Point
	for _, b := range blobs {
		if len(b) > len(largest) {
			largest = b
		}
	}
	if largest == nil {
		return Pawn
	}

	minX, minY, maxX, maxY := width, height, 0, 0
	for _, p := range largest {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	aspect := 0.0
	if w := maxX - minX + 1; w > 0 {
		aspect = float64(maxY-minY+1) / float64(w)
	}

	switch {
	case fillRatio > 0.6 && aspect > 1.2:
		return Rook
	case fillRatio > 0.6:
		return Queen
	case fillRatio > 0.4:
		return Knight
	case fillRatio > 0.2:
		return Bishop
	default:
		return Pawn
	}
}

// classifyCell labels one cell rectangle of the rectified board. It never
// fails: uncertainty comes back as ColorUnknown, not an error.
func classifyCell(board image.Image, r image.Rectangle, cfg ClassifierConfig) CellLabel {
	inset := 0
	if cfg.InsetDivisor > 0 {
		inset = r.Dx() / cfg.InsetDivisor
	}
	gray := grayPlaneRegion(board, r.Inset(inset))

	shade := cellShade(gray, cfg)
	if isCellEmpty(gray, shade, cfg) {
		return CellLabel{Empty: true}
	}

	return CellLabel{
		Color: pieceColor(gray, shade, cfg),
		Type:  guessPieceType(gray, shade, cfg),
	}
}

// classifyGrid labels all 64 cells. The cells are independent, so the work
// is spread over a bounded pool; each worker writes its own grid entries
// and completion order does not matter.
func classifyGrid(board image.Image, boardSize int, cfg ClassifierConfig, workers int) BoardGrid {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan Cell, 64)
	var grid BoardGrid
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		viamutils.PanicCapturingGo(func() {
			defer wg.Done()
			for c := range jobs {
				grid[c.Row][c.Col] = classifyCell(board, cellRect(boardSize, c.Row, c.Col), cfg)
			}
		})
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			jobs <- Cell{Row: row, Col: col}
		}
	}
	close(jobs)
	wg.Wait()

	return grid
}
