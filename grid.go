package chessvision

import (
	"fmt"
	"image"
)

// Cell addresses one of the 64 board squares. Row 0 is the top of the
// rectified image (rank 8), col 0 the left edge (file a). Every consumer
// of the grid, including the position assembler, relies on this convention.
type Cell struct {
	Row, Col int
}

// Name returns the algebraic square name, e.g. {0,0} -> "a8".
func (c Cell) Name() string {
	return fmt.Sprintf("%c%d", 'a'+byte(c.Col), 8-c.Row)
}

// cellRect returns the pixel rectangle of a cell on a rectified board of
// the given size. Board sizes are kept divisible by 8 so cells are exact.
func cellRect(boardSize, row, col int) image.Rectangle {
	cell := boardSize / 8
	return image.Rect(col*cell, row*cell, (col+1)*cell, (row+1)*cell)
}

// splitCells partitions the rectified board into its 64 cell rectangles,
// row-major from a8.
func splitCells(boardSize int) []image.Rectangle {
	cells := make([]image.Rectangle, 0, 64)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			cells = append(cells, cellRect(boardSize, row, col))
		}
	}
	return cells
}
