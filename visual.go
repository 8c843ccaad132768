package chessvision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// VisualCellSize is the edge length of one square in the colorized
// recognition rendering.
const VisualCellSize = 60

// GridOverlay copies the rectified board and draws the 8x8 gridlines on
// top, for visual QA of the segmentation.
func GridOverlay(board image.Image) *image.RGBA {
	bounds := board.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, board, bounds.Min, draw.Src)

	width := bounds.Dx()
	height := bounds.Dy()
	gridColor := color.RGBA{0, 255, 0, 255}

	for i := 0; i <= 8; i++ {
		x := bounds.Min.X + width*i/8
		if i == 8 {
			x--
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			dst.Set(x, y, gridColor)
		}
	}

	for i := 0; i <= 8; i++ {
		y := bounds.Min.Y + height*i/8
		if i == 8 {
			y--
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, y, gridColor)
		}
	}

	return dst
}

// MarkCorners copies the photo and marks the detected corners with red
// circles and crosses.
func MarkCorners(img image.Image, corners []image.Point) *image.RGBA {
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, img.Bounds(), img, img.Bounds().Min, draw.Src)

	red := color.RGBA{255, 0, 0, 255}
	for _, corner := range corners {
		drawCircle(dst, corner.X, corner.Y, 10, red)
		drawCross(dst, corner.X, corner.Y, 15, red)
	}
	return dst
}

// Visualization renders the recognized grid as a synthetic board: square
// colors by parity, a disc per occupant tinted by recognized color, and
// the guessed piece letter on top (uppercase white, lowercase black, '?'
// unknown).
func Visualization(grid *BoardGrid) *image.RGBA {
	size := VisualCellSize * 8
	dst := image.NewRGBA(image.Rect(0, 0, size, size))

	lightSquare := color.RGBA{240, 217, 181, 255}
	darkSquare := color.RGBA{181, 136, 99, 255}
	whiteDisc := toRGBA(colorful.Hsv(220, 0.20, 1.00))
	blackDisc := toRGBA(colorful.Hsv(220, 0.35, 0.50))
	unknownDisc := toRGBA(colorful.Hsv(50, 0.85, 0.95))

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			r := image.Rect(col*VisualCellSize, row*VisualCellSize,
				(col+1)*VisualCellSize, (row+1)*VisualCellSize)

			sq := lightSquare
			textColor := color.RGBA{0, 0, 0, 255}
			if (row+col)%2 == 1 {
				sq = darkSquare
				textColor = color.RGBA{255, 255, 255, 255}
			}
			draw.Draw(dst, r, image.NewUniform(sq), image.Point{}, draw.Src)

			l := grid[row][col]
			if l.Empty {
				continue
			}

			disc := unknownDisc
			switch l.Color {
			case ColorWhite:
				disc = whiteDisc
			case ColorBlack:
				disc = blackDisc
			}

			cx := r.Min.X + VisualCellSize/2
			cy := r.Min.Y + VisualCellSize/2
			fillCircle(dst, cx, cy, 22, disc)
			drawCircle(dst, cx, cy, 22, color.RGBA{0, 0, 0, 255})

			s := string(pieceLetter(l))
			drawString(dst, cx-len(s)*3, cy+4, s, textColor)
		}
	}

	// file and rank labels along the bottom and left edges
	labelColor := color.RGBA{0, 0, 0, 255}
	for i := 0; i < 8; i++ {
		drawString(dst, i*VisualCellSize+VisualCellSize/2-3, size-6,
			string(rune('a'+i)), labelColor)
		drawString(dst, 4, i*VisualCellSize+VisualCellSize/2+4,
			fmt.Sprintf("%d", 8-i), labelColor)
	}

	return dst
}

// Report renders the grid as a box-drawn diagram with the position string
// and summary counts, the human-readable companion of the images.
func Report(grid *BoardGrid) string {
	var sb strings.Builder

	cellChar := func(l CellLabel) byte {
		if l.Empty {
			return '.'
		}
		return pieceLetter(l)
	}

	sb.WriteString("RECOGNIZED POSITION\n")
	sb.WriteString("    a b c d e f g h\n")
	sb.WriteString("   ┌─┬─┬─┬─┬─┬─┬─┬─┐\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  │", 8-row)
		for col := 0; col < 8; col++ {
			sb.WriteByte(cellChar(grid[row][col]))
			sb.WriteString("│")
		}
		fmt.Fprintf(&sb, " %d\n", 8-row)
		if row < 7 {
			sb.WriteString("   ├─┼─┼─┼─┼─┼─┼─┼─┤\n")
		}
	}
	sb.WriteString("   └─┴─┴─┴─┴─┴─┴─┴─┘\n")
	sb.WriteString("    a b c d e f g h\n\n")

	fmt.Fprintf(&sb, "position: %s\n\n", grid.PositionString())

	c := grid.Counts()
	fmt.Fprintf(&sb, "empty cells:    %d\n", c.Empty)
	fmt.Fprintf(&sb, "white pieces:   %d\n", c.White)
	fmt.Fprintf(&sb, "black pieces:   %d\n", c.Black)
	if c.Unknown > 0 {
		fmt.Fprintf(&sb, "unknown color:  %d\n", c.Unknown)
	}
	sb.WriteString("\npiece letters are a fill-ratio guess and low confidence\n")

	return sb.String()
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

func drawString(dst *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

func drawCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for angle := 0.0; angle < 360; angle += 1 {
		x := cx + int(float64(radius)*math.Cos(angle*math.Pi/180))
		y := cy + int(float64(radius)*math.Sin(angle*math.Pi/180))
		if x >= 0 && x < img.Bounds().Max.X && y >= 0 && y < img.Bounds().Max.Y {
			img.Set(x, y, c)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			x, y := cx+dx, cy+dy
			if x >= 0 && x < img.Bounds().Max.X && y >= 0 && y < img.Bounds().Max.Y {
				img.Set(x, y, c)
			}
		}
	}
}

func drawCross(img *image.RGBA, cx, cy, size int, c color.Color) {
	for d := -size; d <= size; d++ {
		x := cx + d
		if x >= 0 && x < img.Bounds().Max.X && cy >= 0 && cy < img.Bounds().Max.Y {
			img.Set(x, cy, c)
		}
		y := cy + d
		if cx >= 0 && cx < img.Bounds().Max.X && y >= 0 && y < img.Bounds().Max.Y {
			img.Set(cx, y, c)
		}
	}
}
