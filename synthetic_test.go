package chessvision

import (
	"image"
	"image/color"
	"image/draw"
)

// Brightness levels for synthetic test boards. The outline ring around
// each piece disc mimics the contrasting silhouette edge real pieces have,
// which is what the occupancy test keys on.
const (
	synthBackground   = 40
	synthLightSquare  = 230
	synthDarkSquare   = 115
	synthWhiteFill    = 250
	synthWhiteOutline = 30
	synthBlackFill    = 5
	synthBlackOutline = 200
)

func grayColor(v int) color.RGBA {
	return color.RGBA{uint8(v), uint8(v), uint8(v), 255}
}

func uniformImage(width, height, v int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(grayColor(v)), image.Point{}, draw.Src)
	return img
}

type synthPiece struct {
	row, col int
	white    bool
}

// startingPieces lays out the standard starting position by occupancy and
// color only; disc shapes carry no type information.
func startingPieces() []synthPiece {
	var pieces []synthPiece
	for col := 0; col < 8; col++ {
		pieces = append(pieces,
			synthPiece{0, col, false},
			synthPiece{1, col, false},
			synthPiece{6, col, true},
			synthPiece{7, col, true},
		)
	}
	return pieces
}

// drawSquares paints an 8x8 checkerboard with a8 light, covering the given
// rectangle.
func drawSquares(img *image.RGBA, board image.Rectangle) {
	cell := board.Dx() / 8
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			v := synthLightSquare
			if (row+col)%2 == 1 {
				v = synthDarkSquare
			}
			r := image.Rect(
				board.Min.X+col*cell, board.Min.Y+row*cell,
				board.Min.X+(col+1)*cell, board.Min.Y+(row+1)*cell)
			draw.Draw(img, r, image.NewUniform(grayColor(v)), image.Point{}, draw.Src)
		}
	}
}

// drawPiece renders one piece as a filled disc with a contrasting outline
// ring, centered in its square.
func drawPiece(img *image.RGBA, board image.Rectangle, p synthPiece) {
	cell := board.Dx() / 8
	cx := board.Min.X + p.col*cell + cell/2
	cy := board.Min.Y + p.row*cell + cell/2

	fill, outline := synthBlackFill, synthBlackOutline
	if p.white {
		fill, outline = synthWhiteFill, synthWhiteOutline
	}

	outer := cell * 43 / 100
	inner := cell * 38 / 100
	fillCircle(img, cx, cy, outer, grayColor(outline))
	fillCircle(img, cx, cy, inner, grayColor(fill))
}

// renderBoardPhoto builds a photo-like image: a centered, axis-aligned
// checkerboard of boardPx pixels on a dark background, with the given
// pieces on it.
func renderBoardPhoto(width, height, boardPx int, pieces []synthPiece) *image.RGBA {
	img := uniformImage(width, height, synthBackground)

	x0 := (width - boardPx) / 2
	y0 := (height - boardPx) / 2
	board := image.Rect(x0, y0, x0+boardPx, y0+boardPx)

	drawSquares(img, board)
	for _, p := range pieces {
		drawPiece(img, board, p)
	}
	return img
}

// renderCell builds a single cell image: uniform background, optionally a
// centered disc of the given fill with an outline ring.
func renderCell(size, background int, piece bool, fill, outline int) *image.RGBA {
	img := uniformImage(size, size, background)
	if piece {
		fillCircle(img, size/2, size/2, size*43/100, grayColor(outline))
		fillCircle(img, size/2, size/2, size*38/100, grayColor(fill))
	}
	return img
}
