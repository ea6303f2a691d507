package board

// Orientation decides which side of the board is drawn at the bottom.
type Orientation uint8

const (
	// Normal draws rank 1 at the bottom and file a on the left.
	Normal Orientation = iota
	// Flipped draws rank 8 at the bottom and file h on the left.
	Flipped
)

// Flip returns the opposite orientation.
func (o Orientation) Flip() Orientation {
	return o ^ 1
}

// String returns "normal" or "flipped".
func (o Orientation) String() string {
	if o == Flipped {
		return "flipped"
	}
	return "normal"
}

// ToGrid converts a board square to a grid cell. Row 0 is the top edge of the
// drawn board, column 0 the left edge.
func ToGrid(sq Square, o Orientation) (row, col int) {
	if o == Flipped {
		return sq.Rank(), 7 - sq.File()
	}
	return 7 - sq.Rank(), sq.File()
}

// ToSquare converts a grid cell back to a board square.
// Cells outside the 8x8 grid yield NoSquare.
func ToSquare(row, col int, o Orientation) Square {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return NoSquare
	}
	if o == Flipped {
		return NewSquare(7-col, row)
	}
	return NewSquare(col, 7-row)
}

// PixelToSquare resolves a pointer position relative to the board's top-left
// corner. Positions outside the board, or a non-positive cell size, yield
// NoSquare.
func PixelToSquare(x, y, cellSize int, o Orientation) Square {
	if cellSize <= 0 {
		return NoSquare
	}
	size := cellSize * 8
	if x < 0 || y < 0 || x >= size || y >= size {
		return NoSquare
	}
	return ToSquare(y/cellSize, x/cellSize, o)
}

// GridToPixel returns the top-left pixel of a grid cell.
func GridToPixel(row, col, cellSize int) (x, y int) {
	return col * cellSize, row * cellSize
}

// SquareToPixel returns the top-left pixel of the cell showing sq.
func SquareToPixel(sq Square, cellSize int, o Orientation) (x, y int) {
	row, col := ToGrid(sq, o)
	return GridToPixel(row, col, cellSize)
}

// IsLightSquare reports whether sq is a light square (h1 and a8 are light).
func IsLightSquare(sq Square) bool {
	return (sq.File()+sq.Rank())%2 == 1
}
