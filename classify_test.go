package chessvision

import (
	"image"
	"testing"

	"go.viam.com/test"
)

func grayRegion(t *testing.T, img *image.RGBA) [][]int {
	t.Helper()
	return grayPlaneRegion(img, img.Bounds())
}

func TestCellShade(t *testing.T) {
	cfg := DefaultClassifierConfig()

	light := grayRegion(t, uniformImage(100, 100, synthLightSquare))
	test.That(t, cellShade(light, cfg), test.ShouldEqual, ShadeLight)

	dark := grayRegion(t, uniformImage(100, 100, synthDarkSquare))
	test.That(t, cellShade(dark, cfg), test.ShouldEqual, ShadeDark)
}

func TestIsCellEmptyUniform(t *testing.T) {
	cfg := DefaultClassifierConfig()

	light := grayRegion(t, uniformImage(100, 100, synthLightSquare))
	test.That(t, isCellEmpty(light, ShadeLight, cfg), test.ShouldBeTrue)

	dark := grayRegion(t, uniformImage(100, 100, synthDarkSquare))
	test.That(t, isCellEmpty(dark, ShadeDark, cfg), test.ShouldBeTrue)
}

func TestIsCellEmptySpread(t *testing.T) {
	cfg := DefaultClassifierConfig()

	// a central patch on a dark square occupies the cell once its
	// brightness clears the spread threshold, even when too few pixels
	// cross the contrast bound
	patch := func(v int) [][]int {
		gray := make([][]int, 100)
		for y := range gray {
			gray[y] = make([]int, 100)
			for x := range gray[y] {
				gray[y][x] = synthDarkSquare
				if y >= 35 && y < 65 && x >= 35 && x < 65 {
					gray[y][x] = v
				}
			}
		}
		return gray
	}

	test.That(t, isCellEmpty(patch(150), ShadeDark, cfg), test.ShouldBeTrue)
	test.That(t, isCellEmpty(patch(220), ShadeDark, cfg), test.ShouldBeFalse)
}

func TestClassifyCellPieces(t *testing.T) {
	cfg := DefaultClassifierConfig()

	for _, tc := range []struct {
		name          string
		square        int
		fill, outline int
		want          PieceColor
	}{
		{"white on light", synthLightSquare, synthWhiteFill, synthWhiteOutline, ColorWhite},
		{"white on dark", synthDarkSquare, synthWhiteFill, synthWhiteOutline, ColorWhite},
		{"black on light", synthLightSquare, synthBlackFill, synthBlackOutline, ColorBlack},
		{"black on dark", synthDarkSquare, synthBlackFill, synthBlackOutline, ColorBlack},
	} {
		t.Run(tc.name, func(t *testing.T) {
			img := renderCell(100, tc.square, true, tc.fill, tc.outline)
			label := classifyCell(img, img.Bounds(), cfg)
			test.That(t, label.Empty, test.ShouldBeFalse)
			test.That(t, label.Color, test.ShouldEqual, tc.want)
		})
	}
}

func TestClassifyCellEmptySquares(t *testing.T) {
	cfg := DefaultClassifierConfig()

	for _, v := range []int{synthLightSquare, synthDarkSquare} {
		img := renderCell(100, v, false, 0, 0)
		label := classifyCell(img, img.Bounds(), cfg)
		test.That(t, label.Empty, test.ShouldBeTrue)
	}
}

func TestClassifyCellUnknownColor(t *testing.T) {
	cfg := DefaultClassifierConfig()

	// mid-gray piece body with a dark outline: clearly occupied, but the
	// central brightness lands between the black and white bounds
	img := renderCell(100, synthLightSquare, true, 155, synthWhiteOutline)
	label := classifyCell(img, img.Bounds(), cfg)
	test.That(t, label.Empty, test.ShouldBeFalse)
	test.That(t, label.Color, test.ShouldEqual, ColorUnknown)
}

func TestGuessPieceType(t *testing.T) {
	cfg := DefaultClassifierConfig()

	// vertical dark bars on a light square: fill ratio and aspect drive
	// the silhouette table
	bar := func(width int) [][]int {
		gray := make([][]int, 100)
		for y := range gray {
			gray[y] = make([]int, 100)
			for x := range gray[y] {
				gray[y][x] = synthLightSquare
				if x >= 50-width/2 && x < 50+width/2 {
					gray[y][x] = synthWhiteOutline
				}
			}
		}
		return gray
	}

	test.That(t, guessPieceType(bar(80), ShadeLight, cfg), test.ShouldEqual, Rook)
	test.That(t, guessPieceType(bar(50), ShadeLight, cfg), test.ShouldEqual, Knight)
	test.That(t, guessPieceType(bar(30), ShadeLight, cfg), test.ShouldEqual, Bishop)
	test.That(t, guessPieceType(bar(10), ShadeLight, cfg), test.ShouldEqual, Pawn)

	// high fill with a square bounding box
	block := make([][]int, 100)
	for y := range block {
		block[y] = make([]int, 100)
		for x := range block[y] {
			block[y][x] = synthLightSquare
			if y >= 10 && y < 90 && x >= 10 && x < 90 {
				block[y][x] = synthWhiteOutline
			}
		}
	}
	test.That(t, guessPieceType(block, ShadeLight, cfg), test.ShouldEqual, Queen)
}

func TestClassifyGridStartingPosition(t *testing.T) {
	cfg := DefaultClassifierConfig()
	board := renderBoardPhoto(800, 800, 800, startingPieces())

	grid := classifyGrid(board, 800, cfg, 8)

	counts := grid.Counts()
	test.That(t, counts.White, test.ShouldEqual, 16)
	test.That(t, counts.Black, test.ShouldEqual, 16)
	test.That(t, counts.Empty, test.ShouldEqual, 32)
	test.That(t, counts.Unknown, test.ShouldEqual, 0)

	for col := 0; col < 8; col++ {
		test.That(t, grid[0][col].Color, test.ShouldEqual, ColorBlack)
		test.That(t, grid[1][col].Color, test.ShouldEqual, ColorBlack)
		test.That(t, grid[6][col].Color, test.ShouldEqual, ColorWhite)
		test.That(t, grid[7][col].Color, test.ShouldEqual, ColorWhite)
	}

	// cell independence: worker count must not change the outcome
	again := classifyGrid(board, 800, cfg, 1)
	test.That(t, again, test.ShouldResemble, grid)
}
